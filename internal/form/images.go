package form

import (
	"encoding/base64"
	"net/http"

	"go.uber.org/zap"
)

// SlotPreview addresses the required main image; gallery slots are addressed
// by their view label (taxonomy.GalleryViews).
const SlotPreview = "preview"

// SetImage asynchronously encodes raw file bytes into an inline data URI and
// stores it in the given slot. Each call is tagged with a per-slot sequence
// number; a completion whose sequence is no longer the latest issued for that
// slot is discarded, so two rapid uploads to the same slot resolve to the one
// initiated last, not the one that happened to finish last.
func (d *Draft) SetImage(slot string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateClosed:
		return ErrDraftClosed
	}
	if !d.slotExists(slot) {
		return ErrBadIndex
	}

	d.uploadSeq[slot]++
	seq := d.uploadSeq[slot]

	d.uploads.Add(1)
	go func() {
		defer d.uploads.Done()
		uri := encodeDataURI(data)

		d.mu.Lock()
		defer d.mu.Unlock()

		if d.state == StateClosed {
			return
		}
		if d.uploadSeq[slot] != seq {
			d.logger.Debug("Discarding stale image upload",
				zap.String("slot", slot),
				zap.Uint64("seq", seq))
			return
		}
		d.storeImageLocked(slot, uri)
	}()

	return nil
}

// ClearImage empties a slot. Bumping the sequence also invalidates any encode
// still in flight for it.
func (d *Draft) ClearImage(slot string) error {
	return d.edit(func() error {
		if !d.slotExists(slot) {
			return ErrBadIndex
		}
		d.uploadSeq[slot]++
		d.storeImageLocked(slot, "")
		return nil
	})
}

// WaitUploads blocks until every issued image encode has completed. Intended
// for shutdown and tests; the form itself never waits.
func (d *Draft) WaitUploads() {
	d.uploads.Wait()
}

func (d *Draft) slotExists(slot string) bool {
	if slot == SlotPreview {
		return true
	}
	for _, g := range d.gallery {
		if g.view == slot {
			return true
		}
	}
	return false
}

func (d *Draft) storeImageLocked(slot, uri string) {
	if slot == SlotPreview {
		d.preview = uri
		return
	}
	for i := range d.gallery {
		if d.gallery[i].view == slot {
			d.gallery[i].file = uri
			return
		}
	}
}

// encodeDataURI is the counterpart of FileReader.readAsDataURL: content type
// sniffed from the bytes, payload base64-encoded.
func encodeDataURI(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," +
		base64.StdEncoding.EncodeToString(data)
}

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/beyoung-commerce/admin-console/internal/api"
	"github.com/beyoung-commerce/admin-console/internal/domain"
	"github.com/beyoung-commerce/admin-console/internal/events"
	"github.com/beyoung-commerce/admin-console/internal/form"
	"github.com/beyoung-commerce/admin-console/internal/list"
	"github.com/beyoung-commerce/admin-console/internal/session"
	"github.com/beyoung-commerce/admin-console/pkg/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDraftNotFound = errors.New("draft not found")
)

// Backend is the full admin API surface the console needs. *api.Client
// satisfies it; tests substitute fakes.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, payload domain.Product, token string) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, payload domain.Product, token string) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string, token string) error
}

// Auditor publishes the audit trail; nil disables auditing.
type Auditor interface {
	Publish(event events.ProductEvent) error
}

// ConsoleService composes the session, the backend client, the product list
// view and the open form drafts behind the HTTP surface.
type ConsoleService struct {
	backend Backend
	session *session.Store
	view    *list.View
	audit   Auditor
	logger  *zap.Logger

	mu        sync.Mutex
	drafts    map[string]*form.Draft
	lastActor string
}

func NewConsoleService(backend Backend, sess *session.Store, audit Auditor, logger *zap.Logger) *ConsoleService {
	return &ConsoleService{
		backend: backend,
		session: sess,
		view:    list.NewView(backend, nil, logger),
		audit:   audit,
		logger:  logger,
		drafts:  make(map[string]*form.Draft),
	}
}

// Login exchanges credentials for a token and persists the session.
func (s *ConsoleService) Login(ctx context.Context, email, password string) error {
	token, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.session.Save(token); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastActor = email
	s.mu.Unlock()

	s.logger.Info("Staff logged in", zap.String("email", email))
	return nil
}

// Logout clears the session. Open drafts are dropped with it.
func (s *ConsoleService) Logout() error {
	s.mu.Lock()
	s.drafts = make(map[string]*form.Draft)
	s.lastActor = ""
	s.mu.Unlock()

	return s.session.Clear()
}

func (s *ConsoleService) Authenticated() bool {
	return s.session.Authenticated()
}

// Products reloads the catalog and returns the entries matching query.
// Without a session this degrades to an empty list, matching the client's
// short-circuit.
func (s *ConsoleService) Products(ctx context.Context, query string) ([]domain.Product, error) {
	if err := s.view.Load(ctx, s.session.Token()); err != nil {
		return nil, err
	}
	return s.view.Filter(query), nil
}

// DeleteProduct removes a product by ID and emits an audit event.
func (s *ConsoleService) DeleteProduct(ctx context.Context, id string) error {
	product := domain.Product{ID: id}
	for _, p := range s.view.Products() {
		if p.ID == id {
			product = p
			break
		}
	}

	if err := s.view.Delete(ctx, product, s.session.Token()); err != nil {
		return err
	}

	s.publishAudit(ctx, events.ActionDeleted, product)
	return nil
}

// OpenDraft creates a draft: empty when productID is blank, hydrated from the
// listed product otherwise. It returns the registry key for later operations.
func (s *ConsoleService) OpenDraft(ctx context.Context, productID string) (string, error) {
	var draft *form.Draft
	if productID == "" {
		draft = form.NewDraft(s.backend, s.logger)
	} else {
		product, err := s.findProduct(ctx, productID)
		if err != nil {
			return "", err
		}
		draft = form.EditOf(product, s.backend, s.logger)
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.drafts[id] = draft
	s.mu.Unlock()

	s.logger.Info("Draft opened",
		zap.String("draft_id", id),
		zap.String("product_id", productID))
	return id, nil
}

// Draft looks up an open draft by its registry key.
func (s *ConsoleService) Draft(id string) (*form.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

// CloseDraft discards an open draft without submitting it.
func (s *ConsoleService) CloseDraft(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}

// SubmitDraft runs the draft's validate-and-save cycle. An update closes the
// draft and removes it from the registry; a create leaves the reset draft
// open for the next product.
func (s *ConsoleService) SubmitDraft(ctx context.Context, id string) (domain.Product, error) {
	draft, err := s.Draft(id)
	if err != nil {
		return domain.Product{}, err
	}

	updating := draft.Snapshot().ExistingID != ""

	saved, err := draft.Submit(ctx, s.session.Token())
	if err != nil {
		return domain.Product{}, err
	}

	action := events.ActionCreated
	if updating {
		action = events.ActionUpdated
		s.mu.Lock()
		delete(s.drafts, id)
		s.mu.Unlock()
	}
	s.publishAudit(ctx, action, saved)

	return saved, nil
}

func (s *ConsoleService) findProduct(ctx context.Context, id string) (domain.Product, error) {
	for _, p := range s.view.Products() {
		if p.ID == id {
			return p, nil
		}
	}

	// Stale snapshot, or the list was never loaded this session.
	if err := s.view.Load(ctx, s.session.Token()); err != nil {
		return domain.Product{}, err
	}
	for _, p := range s.view.Products() {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, api.ErrProductNotFound
}

func (s *ConsoleService) publishAudit(ctx context.Context, action string, product domain.Product) {
	if s.audit == nil {
		return
	}

	s.mu.Lock()
	actor := s.lastActor
	s.mu.Unlock()

	event := events.ProductEvent{
		EventID:   uuid.NewString(),
		Action:    action,
		ProductID: product.ID,
		Title:     product.Title,
		Actor:     actor,
		Timestamp: time.Now(),
		RequestID: middleware.RequestIDFrom(ctx),
	}
	// Best effort. Publish already logged the failure.
	_ = s.audit.Publish(event)
}

package services

import (
	"context"
	"io"

	"go.uber.org/zap"

	"annograph/application/ports"
	domaincfg "annograph/domain/config"
	"annograph/domain/core/graph"
	"annograph/domain/core/validators"
	"annograph/interfaces/convert"
	pkgerrors "annograph/pkg/errors"
)

// PassageService provides the application-level passage operations:
// creation, import and export, validation, and the exchange with a remote
// annotation server
type PassageService struct {
	repo      ports.PassageRepository
	source    ports.PassageSource
	sink      ports.PassageSink
	cfg       *domaincfg.DomainConfig
	validator *validators.StructureValidator
	logger    *zap.Logger
}

// ServiceOption configures the passage service
type ServiceOption func(*PassageService)

// WithDomainConfig sets the constraint set applied to passages the
// service constructs
func WithDomainConfig(cfg *domaincfg.DomainConfig) ServiceOption {
	return func(s *PassageService) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// NewPassageService creates a new passage service. Source and sink are
// optional; the corresponding operations fail cleanly without them.
func NewPassageService(
	repo ports.PassageRepository,
	source ports.PassageSource,
	sink ports.PassageSink,
	logger *zap.Logger,
	opts ...ServiceOption,
) *PassageService {
	s := &PassageService{
		repo:      repo,
		source:    source,
		sink:      sink,
		cfg:       domaincfg.DefaultDomainConfig(),
		validator: validators.NewStructureValidator(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePassage creates and stores an empty passage with both standard
// layers in place
func (s *PassageService) CreatePassage(ctx context.Context, id string) (*graph.Passage, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("passage id is required")
	}

	p := graph.NewPassage(id, graph.WithDomainConfig(s.cfg))
	if _, err := graph.NewLayer0(p); err != nil {
		return nil, err
	}
	if _, err := graph.NewLayer1(p); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to save passage")
	}

	s.logger.Info("passage created", zap.String("passageID", id))
	return p, nil
}

// GetPassage retrieves a stored passage
func (s *PassageService) GetPassage(ctx context.Context, id string) (*graph.Passage, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPassages returns the stored passage ids matching the criteria
func (s *PassageService) ListPassages(ctx context.Context, criteria ports.ListCriteria) ([]string, error) {
	return s.repo.List(ctx, criteria)
}

// DeletePassage removes a stored passage
func (s *PassageService) DeletePassage(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("passage deleted", zap.String("passageID", id))
	return nil
}

// ImportSite imports a passage from the legacy site markup, validates it
// and stores it
func (s *PassageService) ImportSite(ctx context.Context, r io.Reader) (*graph.Passage, error) {
	p, err := convert.FromSite(r)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, p, "site")
}

// ImportJSON imports a passage from its canonical JSON form, validates it
// and stores it
func (s *PassageService) ImportJSON(ctx context.Context, data []byte) (*graph.Passage, error) {
	p, err := convert.FromJSON(data)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, p, "json")
}

// ExportJSON serializes a stored passage into its canonical JSON form
func (s *PassageService) ExportJSON(ctx context.Context, id string) ([]byte, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return convert.ToJSON(p)
}

// Text renders a stored passage's tokens back into paragraph strings
func (s *PassageService) Text(ctx context.Context, id string) ([]string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return convert.ToText(p)
}

// SceneInfo describes one scene of a passage
type SceneInfo struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Top   bool   `json:"top"`
}

// Scenes lists a stored passage's scenes with their terminal spans
func (s *PassageService) Scenes(ctx context.Context, id string) ([]SceneInfo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l1, err := graph.Layer1Of(p)
	if err != nil {
		return nil, err
	}

	top := make(map[*graph.Node]bool)
	for _, scene := range l1.TopScenes() {
		top[scene.Node] = true
	}

	scenes := l1.Scenes()
	infos := make([]SceneInfo, 0, len(scenes))
	for _, scene := range scenes {
		infos = append(infos, SceneInfo{
			ID:    scene.Node.ID().String(),
			Text:  scene.Text(),
			Start: scene.StartPosition(),
			End:   scene.EndPosition(),
			Top:   top[scene.Node],
		})
	}
	return infos, nil
}

// Validate checks a stored passage against the structural rules
func (s *PassageService) Validate(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.validator.Validate(p)
}

// Pull fetches a passage from the remote annotation server and stores it
func (s *PassageService) Pull(ctx context.Context, id string) (*graph.Passage, error) {
	if s.source == nil {
		return nil, pkgerrors.NewInvalidConfigurationError("no passage source configured")
	}
	p, err := s.source.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, p, "remote")
}

// Push submits a stored passage to the remote annotation server
func (s *PassageService) Push(ctx context.Context, id string) error {
	if s.sink == nil {
		return pkgerrors.NewInvalidConfigurationError("no passage sink configured")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.validator.Validate(p); err != nil {
		return err
	}
	if err := s.sink.Submit(ctx, p); err != nil {
		return pkgerrors.Wrap(err, "failed to submit passage")
	}
	s.logger.Info("passage pushed", zap.String("passageID", id))
	return nil
}

func (s *PassageService) store(ctx context.Context, p *graph.Passage, origin string) (*graph.Passage, error) {
	if err := s.validator.Validate(p); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to save passage")
	}
	s.logger.Info("passage imported",
		zap.String("passageID", p.ID()),
		zap.String("origin", origin))
	return p, nil
}

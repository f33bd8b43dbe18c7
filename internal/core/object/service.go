package object

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/supernova/supernova/internal/core/schema"
	"github.com/supernova/supernova/internal/core/validation"
	"github.com/supernova/supernova/internal/core/value"
)

var (
	ErrNotFound      = errors.New("object not found")
	ErrClassNotFound = errors.New("entity class not found")
	ErrNameRequired  = errors.New("name is required")
	ErrNoStates      = errors.New("class has no states defined")
	ErrStateNotFound = errors.New("state does not belong to class")
)

// Service creates, queries and mutates object rows. Property values are
// validated against the class's catalog and encoded before they reach the
// store; metadata is never touched from here.
type Service struct {
	repo      *Repository
	schemaSvc *schema.Service
	validator *validation.Validator
	logger    *zap.Logger
}

func NewService(repo *Repository, schemaSvc *schema.Service, validator *validation.Validator, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		schemaSvc: schemaSvc,
		validator: validator,
		logger:    logger.Named("object"),
	}
}

// Create inserts a new object row. The state must exist and belong to the
// class; required properties must be present; unknown properties are
// rejected because they have no physical column.
func (s *Service) Create(ctx context.Context, classID string, req *CreateObjectRequest) (string, error) {
	if req.Name == "" {
		return "", ErrNameRequired
	}
	if req.Properties == nil {
		req.Properties = map[string]interface{}{}
	}

	props, err := s.classProperties(ctx, classID)
	if err != nil {
		return "", err
	}

	if err := s.checkState(ctx, classID, req.StateID); err != nil {
		return "", err
	}

	if err := s.validator.Validate(req.Properties, validation.BuildSchema(props)); err != nil {
		return "", err
	}

	encoded, err := encodeProperties(req.Properties, props)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := time.Now().Unix()

	if err := s.repo.Insert(ctx, classID, id, req.Name, req.Icon, req.StateID, now, encoded); err != nil {
		s.logger.Error("failed to create object",
			zap.String("class_id", classID), zap.String("name", req.Name), zap.Error(err))
		return "", err
	}

	s.logger.Info("object created",
		zap.String("id", id), zap.String("class_id", classID), zap.String("name", req.Name))
	return id, nil
}

func (s *Service) Get(ctx context.Context, classID, objectID string) (value.Row, error) {
	row, err := s.repo.Get(ctx, classID, objectID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}

func (s *Service) GetAll(ctx context.Context, classID, whereClause string, args ...any) ([]value.Row, error) {
	return s.repo.GetAll(ctx, classID, whereClause, args...)
}

func (s *Service) GetByState(ctx context.Context, classID, stateID string) ([]value.Row, error) {
	return s.repo.GetAll(ctx, classID, "current_state_id = ?", stateID)
}

// Update rewrites the supplied property values and refreshes updated_at.
// Required properties may be absent from a partial update.
func (s *Service) Update(ctx context.Context, classID, objectID string, req *UpdateObjectRequest) error {
	if req.Properties == nil {
		req.Properties = map[string]interface{}{}
	}

	props, err := s.classProperties(ctx, classID)
	if err != nil {
		return err
	}

	if err := s.validator.ValidatePartial(req.Properties, validation.BuildSchema(props)); err != nil {
		return err
	}

	encoded, err := encodeProperties(req.Properties, props)
	if err != nil {
		return err
	}
	if req.Name != "" {
		encoded["name"] = value.Text(req.Name)
	}
	if req.Icon != "" {
		encoded["icon"] = value.Text(req.Icon)
	}

	if err := s.repo.Update(ctx, classID, objectID, time.Now().Unix(), encoded); err != nil {
		s.logger.Error("failed to update object",
			zap.String("class_id", classID), zap.String("id", objectID), zap.Error(err))
		return err
	}

	s.logger.Info("object updated", zap.String("id", objectID), zap.String("class_id", classID))
	return nil
}

func (s *Service) UpdateState(ctx context.Context, classID, objectID, stateID string) error {
	if err := s.checkState(ctx, classID, stateID); err != nil {
		return err
	}

	if err := s.repo.UpdateState(ctx, classID, objectID, stateID, time.Now().Unix()); err != nil {
		s.logger.Error("failed to update object state",
			zap.String("class_id", classID), zap.String("id", objectID), zap.Error(err))
		return err
	}

	s.logger.Info("object state updated",
		zap.String("id", objectID), zap.String("state_id", stateID))
	return nil
}

func (s *Service) Delete(ctx context.Context, classID, objectID string) error {
	if err := s.repo.Delete(ctx, classID, objectID); err != nil {
		s.logger.Error("failed to delete object",
			zap.String("class_id", classID), zap.String("id", objectID), zap.Error(err))
		return err
	}

	s.logger.Info("object deleted", zap.String("id", objectID), zap.String("class_id", classID))
	return nil
}

func (s *Service) Count(ctx context.Context, classID, whereClause string, args ...any) (int64, error) {
	return s.repo.Count(ctx, classID, whereClause, args...)
}

func (s *Service) Search(ctx context.Context, classID, propertyName, term string, matchType SearchMatchType) ([]value.Row, error) {
	return s.repo.Search(ctx, classID, propertyName, term, matchType)
}

// DecodeRow converts a stored row's property columns back to application
// values using each property's declared type.
func (s *Service) DecodeRow(ctx context.Context, classID string, row value.Row) (map[string]any, error) {
	props, err := s.classProperties(ctx, classID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(props))
	for _, p := range props {
		column := value.SanitizeColumnName(p.Name)
		if v, ok := row[column]; ok {
			out[p.Name] = schema.DecodeProperty(v, p.Type)
		}
	}
	return out, nil
}

func (s *Service) classProperties(ctx context.Context, classID string) ([]*schema.Property, error) {
	if _, err := s.schemaSvc.GetClass(ctx, classID); err != nil {
		if errors.Is(err, schema.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return s.schemaSvc.GetProperties(ctx, classID)
}

func (s *Service) checkState(ctx context.Context, classID, stateID string) error {
	states, err := s.schemaSvc.GetStates(ctx, classID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return ErrNoStates
	}
	for _, st := range states {
		if st.ID == stateID {
			return nil
		}
	}
	return ErrStateNotFound
}

func encodeProperties(values map[string]interface{}, props []*schema.Property) (map[string]value.Value, error) {
	byName := make(map[string]*schema.Property, len(props))
	for _, p := range props {
		byName[p.Name] = p
	}

	encoded := make(map[string]value.Value, len(values))
	for name, v := range values {
		p, ok := byName[name]
		if !ok {
			// The validator rejects unknown names before this point;
			// reaching here means the caller bypassed validation.
			return nil, &validation.ValidationErrors{Errors: []validation.ValidationError{
				{Field: name, Message: "unknown property"},
			}}
		}
		encoded[value.SanitizeColumnName(p.Name)] = schema.EncodeProperty(v, p.Type)
	}
	return encoded, nil
}

package schema

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/supernova/supernova/internal/core/value"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNameRequired   = errors.New("name is required")
	ErrInvalidType    = errors.New("invalid type")
	ErrColumnConflict = errors.New("property name conflicts with an existing column")
)

// Service orchestrates the schema catalog: validation, identity, and the
// metadata+DDL sequencing live here.
type Service struct {
	repo   *Repository
	logger *zap.Logger
}

func NewService(repo *Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.Named("schema")}
}

func (s *Service) CreateClass(ctx context.Context, req *CreateClassRequest) (*EntityClass, error) {
	if req.Name == "" {
		return nil, ErrNameRequired
	}

	now := time.Now()
	c := &EntityClass{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Icon:        req.Icon,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateClass(ctx, c); err != nil {
		s.logger.Error("failed to create class", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("class created", zap.String("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (s *Service) GetClass(ctx context.Context, id string) (*EntityClass, error) {
	c, err := s.repo.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *Service) GetAllClasses(ctx context.Context) ([]*EntityClass, error) {
	return s.repo.GetAllClasses(ctx)
}

func (s *Service) UpdateClass(ctx context.Context, id string, req *UpdateClassRequest) (*EntityClass, error) {
	c, err := s.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Icon != "" {
		c.Icon = req.Icon
	}
	if req.Description != "" {
		c.Description = req.Description
	}

	if err := s.repo.UpdateClass(ctx, c); err != nil {
		s.logger.Error("failed to update class", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("class updated", zap.String("id", id), zap.String("name", c.Name))
	return c, nil
}

// DeleteClass cascades: properties, states, actions and the physical table
// go with the class, in one transaction.
func (s *Service) DeleteClass(ctx context.Context, id string) error {
	c, err := s.GetClass(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteClass(ctx, id); err != nil {
		s.logger.Error("failed to delete class", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("class deleted", zap.String("id", id), zap.String("name", c.Name))
	return nil
}

func (s *Service) CreateProperty(ctx context.Context, classID string, req *CreatePropertyRequest) (*Property, error) {
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}
	if _, err := s.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	if err := s.checkColumnConflict(ctx, classID, req.Name); err != nil {
		return nil, err
	}

	p := &Property{
		ID:                     uuid.NewString(),
		EntityClassID:          classID,
		Name:                   req.Name,
		Type:                   req.Type,
		IsRequired:             req.IsRequired,
		Order:                  req.Order,
		ReferenceTargetClassID: req.ReferenceTargetClassID,
	}

	if err := s.repo.CreateProperty(ctx, p); err != nil {
		s.logger.Error("failed to create property",
			zap.String("class_id", classID), zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("property created",
		zap.String("id", p.ID), zap.String("class_id", classID), zap.String("name", p.Name))
	return p, nil
}

// checkColumnConflict rejects a property whose sanitized column name
// collides with a fixed column or an existing property. Without this,
// "Owner!" and "owner?" would silently share one physical column.
func (s *Service) checkColumnConflict(ctx context.Context, classID, name string) error {
	column := value.SanitizeColumnName(name)

	for _, fixed := range FixedColumns {
		if column == fixed {
			return ErrColumnConflict
		}
	}

	props, err := s.repo.GetProperties(ctx, classID)
	if err != nil {
		return err
	}
	for _, p := range props {
		if value.SanitizeColumnName(p.Name) == column {
			return ErrColumnConflict
		}
	}
	return nil
}

func (s *Service) GetProperties(ctx context.Context, classID string) ([]*Property, error) {
	return s.repo.GetProperties(ctx, classID)
}

func (s *Service) UpdateProperty(ctx context.Context, id string, req *UpdatePropertyRequest) (*Property, error) {
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Type != "" {
		if !req.Type.Valid() {
			return nil, ErrInvalidType
		}
		p.Type = req.Type
	}
	if req.IsRequired != nil {
		p.IsRequired = *req.IsRequired
	}
	if req.ReferenceTargetClassID != "" {
		p.ReferenceTargetClassID = req.ReferenceTargetClassID
	}

	if err := s.repo.UpdateProperty(ctx, p); err != nil {
		s.logger.Error("failed to update property", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdatePropertyOrder(ctx context.Context, id string, order int) error {
	return s.repo.UpdatePropertyOrder(ctx, id, order)
}

// DeleteProperty removes the metadata row only. The physical column stays
// behind, soft-orphaned; subsequent reads ignore it.
func (s *Service) DeleteProperty(ctx context.Context, id string) error {
	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		s.logger.Error("failed to delete property", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("property deleted", zap.String("id", id))
	return nil
}

func (s *Service) CreateState(ctx context.Context, classID string, req *CreateStateRequest) (*State, error) {
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}
	if _, err := s.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	st := &State{
		ID:            uuid.NewString(),
		EntityClassID: classID,
		Name:          req.Name,
		Type:          req.Type,
		Icon:          req.Icon,
		Color:         req.Color,
		Order:         req.Order,
	}

	if err := s.repo.CreateState(ctx, st); err != nil {
		s.logger.Error("failed to create state",
			zap.String("class_id", classID), zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("state created", zap.String("id", st.ID), zap.String("name", st.Name))
	return st, nil
}

func (s *Service) GetState(ctx context.Context, id string) (*State, error) {
	st, err := s.repo.GetState(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound
	}
	return st, nil
}

func (s *Service) GetStates(ctx context.Context, classID string) ([]*State, error) {
	return s.repo.GetStates(ctx, classID)
}

func (s *Service) DeleteState(ctx context.Context, id string) error {
	return s.repo.DeleteState(ctx, id)
}

func (s *Service) CreateAction(ctx context.Context, classID string, req *CreateActionRequest) (*Action, error) {
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	trigger := req.TriggerType
	if trigger == "" {
		trigger = TriggerManual
	}
	if !trigger.Valid() {
		return nil, ErrInvalidType
	}

	a := &Action{
		ID:              uuid.NewString(),
		EntityClassID:   classID,
		Name:            req.Name,
		Icon:            req.Icon,
		Description:     req.Description,
		TriggerType:     trigger,
		Order:           req.Order,
		TriggerStateID:  req.TriggerStateID,
		AllowedStateIDs: req.AllowedStateIDs,
	}
	if a.AllowedStateIDs == nil {
		a.AllowedStateIDs = []string{}
	}

	if err := s.repo.CreateAction(ctx, a); err != nil {
		s.logger.Error("failed to create action",
			zap.String("class_id", classID), zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("action created", zap.String("id", a.ID), zap.String("name", a.Name))
	return a, nil
}

func (s *Service) GetActions(ctx context.Context, classID string) ([]*Action, error) {
	return s.repo.GetActions(ctx, classID)
}

func (s *Service) DeleteAction(ctx context.Context, id string) error {
	return s.repo.DeleteAction(ctx, id)
}

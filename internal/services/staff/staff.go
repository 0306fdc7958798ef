package staff

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/managers"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

type Service struct {
	managers managers.Repository
}

func New(managers managers.Repository) Service {
	return Service{managers: managers}
}

func (s Service) AddManager(
	ctx context.Context, name, email, department string, permissions []string,
) (models.Manager, error) {
	created, err := s.managers.Create(ctx, models.NewManager(name, email, department, permissions))
	if err != nil {
		return models.Manager{}, err
	}
	log.Info().
		Int("managerID", created.ID).Str("email", created.Email).
		Msg("Added manager")
	return created, nil
}

func (s Service) GetManager(ctx context.Context, id int) (models.Manager, error) {
	return s.managers.GetByID(ctx, id)
}

// SearchManagers returns the managers matching the given free-text term
func (s Service) SearchManagers(ctx context.Context, term string) ([]models.Manager, error) {
	return s.managers.Search(ctx, term)
}

// ToggleManagerStatus flips a manager between the active and suspended statuses,
// returning the updated manager
func (s Service) ToggleManagerStatus(ctx context.Context, id int) (models.Manager, error) {
	m, err := s.managers.GetByID(ctx, id)
	if err != nil {
		return models.Manager{}, err
	}
	newStatus := models.ManagerStatusSuspended
	if m.Status != models.ManagerStatusActive {
		newStatus = models.ManagerStatusActive
	}
	if err = s.managers.SetStatus(ctx, id, newStatus); err != nil {
		return models.Manager{}, err
	}
	log.Info().
		Int("managerID", id).
		Str("before", string(m.Status)).Str("after", string(newStatus)).
		Msg("Toggled manager status")
	m.Status = newStatus
	return m, nil
}

func (s Service) DeleteManager(ctx context.Context, id int) error {
	if err := s.managers.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int("managerID", id).Msg("Deleted manager")
	return nil
}

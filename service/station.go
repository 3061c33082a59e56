package service

import (
	"context"
	"errors"
	"strings"

	"bharatparcel/apperrors"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/repository"
)

type StationService interface {
	Create(ctx context.Context, s *models.Station) (*models.Station, error)
	List(ctx context.Context) ([]models.StationListRow, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, stationID string) (*models.Station, error)
	GetByName(ctx context.Context, name string) (*models.Station, error)
	Update(ctx context.Context, stationID string, upd *models.StationUpdate) (*models.Station, error)
	Delete(ctx context.Context, stationID string) error
}

type stationService struct {
	repo      repository.StationRepository
	validator *Validator
	log       *logger.Logger
}

func NewStationService(repo repository.StationRepository, v *Validator, log *logger.Logger) StationService {
	return &stationService{repo: repo, validator: v, log: log}
}

func (s *stationService) sanitize(st *models.Station) {
	st.StationName = strings.TrimSpace(st.StationName)
	st.Contact = strings.TrimSpace(st.Contact)
	st.EmailID = strings.TrimSpace(st.EmailID)
	st.Address = strings.TrimSpace(st.Address)
	st.State = strings.TrimSpace(st.State)
	st.City = strings.TrimSpace(st.City)
	st.Pincode = strings.TrimSpace(st.Pincode)
	st.GST = strings.TrimSpace(st.GST)
}

// requiredStationFields are checked in order; the first missing one is reported.
func requiredStationFields(st *models.Station) []struct{ value, message string } {
	return []struct{ value, message string }{
		{st.StationName, "Station name is required"},
		{st.Contact, "Contact number is required"},
		{st.EmailID, "Email ID is required"},
		{st.Address, "Address is required"},
		{st.State, "State is required"},
		{st.City, "City is required"},
		{st.Pincode, "Pincode is required"},
		{st.GST, "GST number is required"},
	}
}

func conflictMessage(existing, st *models.Station) string {
	switch {
	case existing.StationName == st.StationName:
		return "Station name already exists"
	case existing.EmailID == st.EmailID:
		return "Email ID already registered"
	case existing.GST == st.GST:
		return "GST number already registered"
	case existing.Contact == st.Contact:
		return "Contact number already registered"
	}
	return "Duplicate station entry"
}

func (s *stationService) Create(ctx context.Context, st *models.Station) (*models.Station, error) {
	s.sanitize(st)

	for _, f := range requiredStationFields(st) {
		if f.value == "" {
			s.log.Warn("Station validation failed", "error", f.message)
			return nil, apperrors.InvalidInput(f.message)
		}
	}
	if err := s.validator.Validate(st); err != nil {
		s.log.Warn("Station validation failed", "station_name", st.StationName, "error", err)
		return nil, validationFailed("Station validation failed", err)
	}

	existing, err := s.repo.FindConflict(ctx, st)
	if err != nil {
		return nil, storeFailure(s.log, "Failed to check for existing stations", err, "station_name", st.StationName)
	}
	if existing != nil {
		return nil, apperrors.Conflict(conflictMessage(existing, st))
	}

	if err := s.repo.Create(ctx, st); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Duplicate station entry")
		}
		return nil, storeFailure(s.log, "Failed to create station", err, "station_name", st.StationName)
	}

	s.log.Info("Station created successfully",
		"station_id", st.StationID,
		"station_name", st.StationName,
	)
	return st, nil
}

func (s *stationService) List(ctx context.Context) ([]models.StationListRow, error) {
	stations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list stations", err)
	}
	rows := make([]models.StationListRow, 0, len(stations))
	for i, st := range stations {
		rows = append(rows, models.StationListRow{
			SNo:           i + 1,
			StationID:     st.StationID,
			StationName:   st.StationName,
			ContactNumber: st.Contact,
		})
	}
	return rows, nil
}

func (s *stationService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, storeFailure(s.log, "Failed to count stations", err)
	}
	return n, nil
}

func (s *stationService) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	if stationID == "" {
		return nil, apperrors.InvalidInput("Station ID cannot be empty")
	}
	st, err := s.repo.FindByStationID(ctx, stationID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFoundWithID("Station", stationID)
		}
		return nil, storeFailure(s.log, "Failed to retrieve station", err, "station_id", stationID)
	}
	return st, nil
}

func (s *stationService) GetByName(ctx context.Context, name string) (*models.Station, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidInput("Station name cannot be empty")
	}
	st, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFoundMessage("Station not found with name " + name)
		}
		return nil, storeFailure(s.log, "Failed to retrieve station", err, "station_name", name)
	}
	return st, nil
}

func (s *stationService) Update(ctx context.Context, stationID string, upd *models.StationUpdate) (*models.Station, error) {
	if err := s.validator.Validate(upd); err != nil {
		s.log.Warn("Station update validation failed", "station_id", stationID, "error", err)
		return nil, validationFailed("Station validation failed", err)
	}
	fields := upd.Fields()
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	st, err := s.repo.Update(ctx, stationID, fields)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFoundWithID("Station", stationID)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Station name already exists")
		}
		return nil, storeFailure(s.log, "Failed to update station", err, "station_id", stationID)
	}

	s.log.Info("Station updated successfully", "station_id", stationID)
	return st, nil
}

func (s *stationService) Delete(ctx context.Context, stationID string) error {
	if err := s.repo.Delete(ctx, stationID); err != nil {
		if isNotFound(err) {
			return apperrors.NotFoundWithID("Station", stationID)
		}
		return storeFailure(s.log, "Failed to delete station", err, "station_id", stationID)
	}
	s.log.Info("Station deleted successfully", "station_id", stationID)
	return nil
}

// resolveStation looks a station up by its whole name, ignoring case. A name
// that does not resolve is a client error.
func resolveStation(ctx context.Context, repo repository.StationRepository, log *logger.Logger, name, role string) (*models.Station, error) {
	st, err := repo.ResolveName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFoundMessage(role + " station '" + name + "' not found")
		}
		return nil, storeFailure(log, "Failed to resolve station", err, "station_name", name)
	}
	return st, nil
}

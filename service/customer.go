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

type CustomerService interface {
	Create(ctx context.Context, c *models.Customer) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
}

type customerService struct {
	repo      repository.CustomerRepository
	validator *Validator
	log       *logger.Logger
}

func NewCustomerService(repo repository.CustomerRepository, v *Validator, log *logger.Logger) CustomerService {
	return &customerService{repo: repo, validator: v, log: log}
}

func (s *customerService) Create(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.MiddleName = strings.TrimSpace(c.MiddleName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.EmailID = strings.TrimSpace(c.EmailID)
	c.ContactNumber = strings.TrimSpace(c.ContactNumber)

	if err := s.validator.Validate(c); err != nil {
		s.log.Warn("Customer validation failed", "email", c.EmailID, "error", err)
		return nil, validationFailed("Customer validation failed", err)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Customer with this email already exists")
		}
		return nil, storeFailure(s.log, "Failed to create customer", err, "email", c.EmailID)
	}

	s.log.Info("Customer created successfully", "id", c.ID, "email", c.EmailID)
	return c, nil
}

func (s *customerService) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list customers", err)
	}
	return customers, nil
}

func (s *customerService) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}
	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFoundMessage("Customer not found with provided email")
		}
		return nil, storeFailure(s.log, "Failed to retrieve customer", err, "email", email)
	}
	return c, nil
}

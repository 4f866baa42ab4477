package company

import (
	"context"

	"github.com/tempohq/tempo-backend-go/internal/domain/company"
	"github.com/tempohq/tempo-backend-go/internal/domain/user"
	"github.com/tempohq/tempo-backend-go/internal/pkg/database"
)

type CompanyService interface {
	GetCompany(ctx context.Context, companyID string) (company.Company, error)
	GetMembers(ctx context.Context, companyID string) ([]user.User, error)
}

type CompanyServiceImpl struct {
	db        *database.DB
	companies company.CompanyRepository
	users     user.UserRepository
}

func NewCompanyService(db *database.DB, companyRepository company.CompanyRepository, userRepository user.UserRepository) CompanyService {
	return &CompanyServiceImpl{
		db:        db,
		companies: companyRepository,
		users:     userRepository,
	}
}

func (s *CompanyServiceImpl) GetCompany(ctx context.Context, companyID string) (company.Company, error) {
	return s.companies.GetByID(ctx, companyID)
}

func (s *CompanyServiceImpl) GetMembers(ctx context.Context, companyID string) ([]user.User, error) {
	return s.users.GetByCompanyID(ctx, companyID)
}

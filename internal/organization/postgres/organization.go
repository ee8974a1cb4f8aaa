package postgres

import (
	"context"

	"github.com/frahmantamala/docdraft/internal/core/common/txn"
	organizationDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/organization"
	"github.com/frahmantamala/docdraft/internal/core/scope"
	"github.com/frahmantamala/docdraft/internal/organization"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) organization.RepositoryAPI {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) List(ctx context.Context, pred scope.Predicate) ([]*organization.Organization, error) {
	db := r.db.WithContext(ctx).Model(&organizationDatamodel.Organization{})
	if !pred.Unrestricted {
		db = db.Where("organizations.id = ?", pred.OrgID)
	}

	var rows []*organizationDatamodel.Organization
	if err := db.Order("organizations.id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	orgs := make([]*organization.Organization, 0, len(rows))
	for _, row := range rows {
		orgs = append(orgs, organization.FromDataModel(row))
	}
	return orgs, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, name string) (*organization.Organization, error) {
	row := organizationDatamodel.Organization{Name: name}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return organization.FromDataModel(&row), nil
}

// Bootstrap returns the oldest organization with the given name, creating it
// when none exists.
func (r *OrganizationRepository) Bootstrap(ctx context.Context, name string) (*organization.Organization, error) {
	var row organizationDatamodel.Organization
	err := txn.Run(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Where(organizationDatamodel.Organization{Name: name}).
			Order("id ASC").
			FirstOrCreate(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return organization.FromDataModel(&row), nil
}

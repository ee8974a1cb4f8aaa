package organization

import (
	"time"

	organizationDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/organization"
)

type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(o *organizationDatamodel.Organization) *Organization {
	return &Organization{
		ID:        o.ID,
		Name:      o.Name,
		CreatedAt: o.CreatedAt,
	}
}

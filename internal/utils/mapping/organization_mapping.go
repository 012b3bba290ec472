package mapping

import (
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/models"
)

// ToModelOrganization converts a domain Organization to a model Organization
func ToModelOrganization(d domain.Organization) models.Organization {
	m := models.Organization{
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Address:        d.Address,
		Phone:          d.Phone,
		Email:          d.Email,
		Settings: models.OrganizationSettings{
			AllowUserInvites:      d.Settings.AllowUserInvites,
			RequireApproverReview: d.Settings.RequireApproverReview,
		},
		Size:        string(d.Size),
		IsDefault:   d.IsDefault,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if len(d.CustomRoles) > 0 {
		m.CustomRoles = make([]models.CustomRole, len(d.CustomRoles))
		for i, r := range d.CustomRoles {
			m.CustomRoles[i] = models.CustomRole{
				RoleID:      r.RoleID,
				Name:        r.Name,
				Permissions: r.Permissions,
			}
		}
	}
	return m
}

// ToDomainOrganization converts a model Organization to a domain Organization
func ToDomainOrganization(m models.Organization) domain.Organization {
	d := domain.Organization{
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Address:        m.Address,
		Phone:          m.Phone,
		Email:          m.Email,
		Settings: domain.OrganizationSettings{
			AllowUserInvites:      m.Settings.AllowUserInvites,
			RequireApproverReview: m.Settings.RequireApproverReview,
		},
		Size:        domain.OrganizationSize(m.Size),
		IsDefault:   m.IsDefault,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if len(m.CustomRoles) > 0 {
		d.CustomRoles = make([]domain.CustomRole, len(m.CustomRoles))
		for i, r := range m.CustomRoles {
			d.CustomRoles[i] = domain.CustomRole{
				RoleID:      r.RoleID,
				Name:        r.Name,
				Permissions: r.Permissions,
			}
		}
	}
	return d
}

// ToDomainOrganizationSlice converts a slice of model Organizations to domain Organizations
func ToDomainOrganizationSlice(ms []models.Organization) []domain.Organization {
	ds := make([]domain.Organization, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrganization(m)
	}
	return ds
}

package transport

import "orgdir_backend/internal/orgs/repository"

// CreateOrganisationRequest is the organisation creation payload. Any
// client-supplied name is ignored; only the description is taken.
type CreateOrganisationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddMemberRequest carries the user to add to an organisation.
type AddMemberRequest struct {
	UserID string `json:"userId"`
}

// OrganisationView is the wire projection of an organisation record.
type OrganisationView struct {
	OrgID       string `json:"orgId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewOrganisationView projects a stored organisation record.
func NewOrganisationView(org repository.Organisation) OrganisationView {
	return OrganisationView{
		OrgID:       org.ID.String(),
		Name:        org.Name,
		Description: org.Description,
	}
}

// NewOrganisationViews projects a slice of organisation records.
func NewOrganisationViews(orgs []repository.Organisation) []OrganisationView {
	views := make([]OrganisationView, 0, len(orgs))
	for _, org := range orgs {
		views = append(views, NewOrganisationView(org))
	}
	return views
}

// OrganisationListData wraps the listing under its own key.
type OrganisationListData struct {
	Organisations []OrganisationView `json:"organisations"`
}

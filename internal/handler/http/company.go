package http

import (
	"net/http"

	"github.com/tempohq/tempo-backend-go/internal/handler/http/response"
	companyService "github.com/tempohq/tempo-backend-go/internal/service/company"
)

type CompanyHandler interface {
	GetMy(w http.ResponseWriter, r *http.Request)
	ListMembers(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService companyService.CompanyService
}

func NewCompanyHandler(service companyService.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService: service,
	}
}

// GetMy implements CompanyHandler.
func (h *CompanyHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	c, err := h.companyService.GetCompany(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, c)
}

// ListMembers implements CompanyHandler.
func (h *CompanyHandlerImpl) ListMembers(w http.ResponseWriter, r *http.Request) {
	_, companyID, _, err := requestClaims(r)
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	members, err := h.companyService.GetMembers(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, members)
}

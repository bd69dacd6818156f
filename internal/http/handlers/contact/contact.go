package contact

import (
	"context"
	"net/http"

	"github.com/princekumarofficial/portfolio-service/internal/types"
	"github.com/princekumarofficial/portfolio-service/internal/utils/request"
	"github.com/princekumarofficial/portfolio-service/internal/utils/response"
)

type Service interface {
	Submit(ctx context.Context, req types.ContactRequest) (types.ContactMessage, error)
}

// Submit handles the contact form
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param message body types.ContactRequest true "Message"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response "Bad request"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Router /contact [post]
func Submit(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ContactRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			response.WriteError(w, err)
			return
		}

		msg, err := svc.Submit(r.Context(), req)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Message sent", map[string]string{"id": msg.ID}))
	}
}

// SocialLinks lists the configured social profiles
// @Summary Social links
// @Tags contact
// @Produce json
// @Success 200 {object} response.Response{data=[]types.SocialLink}
// @Router /social-links [get]
func SocialLinks(links []types.SocialLink) http.HandlerFunc {
	if links == nil {
		links = []types.SocialLink{}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Social links", links))
	}
}

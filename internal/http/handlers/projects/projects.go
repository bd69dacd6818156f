package projects

import (
	"context"
	"net/http"

	"github.com/princekumarofficial/portfolio-service/internal/types"
	"github.com/princekumarofficial/portfolio-service/internal/utils/request"
	"github.com/princekumarofficial/portfolio-service/internal/utils/response"
)

type Service interface {
	ListProjects(ctx context.Context) ([]types.Project, error)
	GetProject(ctx context.Context, id int64) (types.Project, error)
	UpdateProject(ctx context.Context, id int64, patch types.ProjectPatch) (types.Project, error)
	DeleteProject(ctx context.Context, id int64) (types.DeleteResult, error)
}

// List handles the project gallery endpoint
// @Summary List projects
// @Description Projects newest first, each with its media in upload order
// @Tags projects
// @Produce json
// @Success 200 {object} response.Response{data=[]types.Project}
// @Failure 500 {object} response.Response "Internal server error"
// @Router /projects [get]
func List(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := svc.ListProjects(r.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Projects fetched successfully", projects))
	}
}

// Get returns one project
// @Summary Get project
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Response{data=types.Project}
// @Failure 400 {object} response.Response "Bad request"
// @Failure 404 {object} response.Response "Project not found"
// @Router /projects/{id} [get]
func Get(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathInt64(r, "id")
		if err != nil {
			response.WriteError(w, err)
			return
		}

		project, err := svc.GetProject(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Project fetched successfully", project))
	}
}

// Update applies a partial edit
// @Summary Update project
// @Description Only the fields present in the body are written
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param project body types.ProjectPatch true "Fields to change"
// @Success 200 {object} response.Response{data=types.Project}
// @Failure 400 {object} response.Response "Bad request"
// @Failure 404 {object} response.Response "Project not found"
// @Router /projects/{id} [patch]
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathInt64(r, "id")
		if err != nil {
			response.WriteError(w, err)
			return
		}

		var patch types.ProjectPatch
		if err := request.DecodeJSON(w, r, &patch); err != nil {
			response.WriteError(w, err)
			return
		}

		project, err := svc.UpdateProject(r.Context(), id, patch)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Project updated successfully", project))
	}
}

// Delete removes a project and its media
// @Summary Delete project
// @Description Removes every stored media object, then the project row. outcome is deleted_metadata_only when some objects could not be removed.
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Response{data=types.DeleteResult}
// @Failure 404 {object} response.Response "Project not found"
// @Router /projects/{id} [delete]
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathInt64(r, "id")
		if err != nil {
			response.WriteError(w, err)
			return
		}

		result, err := svc.DeleteProject(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Project deleted", result))
	}
}

package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"annograph/application/ports"
	"annograph/application/services"
	"annograph/domain/core/graph"
	"annograph/pkg/common"
)

const maxImportBytes = 16 << 20

// PassageHandler handles passage-related HTTP requests
type PassageHandler struct {
	service *services.PassageService
	logger  *zap.Logger
}

// NewPassageHandler creates a new passage handler
func NewPassageHandler(service *services.PassageService, logger *zap.Logger) *PassageHandler {
	return &PassageHandler{
		service: service,
		logger:  logger,
	}
}

// PassageSummary is the wire representation of a passage without its
// full annotation graph
type PassageSummary struct {
	ID     string                 `json:"id"`
	Layers []LayerSummary         `json:"layers"`
	Attrib map[string]interface{} `json:"attrib,omitempty"`
}

// LayerSummary describes one layer of a passage
type LayerSummary struct {
	ID    string `json:"id"`
	Nodes int    `json:"nodes"`
}

// CreatePassage handles POST /passages
func (h *PassageHandler) CreatePassage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	p, err := h.service.CreatePassage(r.Context(), req.ID)
	if err != nil {
		h.logger.Warn("failed to create passage",
			zap.String("passageID", req.ID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, summarize(p))
}

// GetPassage handles GET /passages/{passageID}
func (h *PassageHandler) GetPassage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	p, err := h.service.GetPassage(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, summarize(p))
}

// ListPassages handles GET /passages
func (h *PassageHandler) ListPassages(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)
	prefix := r.URL.Query().Get("prefix")

	ids, err := h.service.ListPassages(r.Context(), ports.ListCriteria{Prefix: prefix})
	if err != nil {
		h.logger.Error("failed to list passages", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	total := len(ids)
	offset := params.CalculateOffset()
	if offset > total {
		offset = total
	}
	end := offset + params.PageSize
	if end > total {
		end = total
	}

	common.RespondWithMeta(w, http.StatusOK,
		map[string]interface{}{"passages": ids[offset:end]},
		&common.MetaInfo{
			RequestID:  common.ExtractRequestID(r),
			Pagination: common.BuildPaginationMeta(params.Page, params.PageSize, total),
		})
}

// DeletePassage handles DELETE /passages/{passageID}
func (h *PassageHandler) DeletePassage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	if err := h.service.DeletePassage(r.Context(), id); err != nil {
		common.RespondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportSite handles POST /passages/import/site, the body being a site
// format document
func (h *PassageHandler) ImportSite(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	defer body.Close()

	p, err := h.service.ImportSite(r.Context(), body)
	if err != nil {
		h.logger.Warn("site import failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, summarize(p))
}

// ImportJSON handles POST /passages/import/json, the body being a passage
// in its canonical JSON form
func (h *PassageHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "failed to read request body")
		return
	}

	p, err := h.service.ImportJSON(r.Context(), body)
	if err != nil {
		h.logger.Warn("json import failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, summarize(p))
}

// ExportJSON handles GET /passages/{passageID}/export. The canonical JSON
// document is returned verbatim, not wrapped in the response envelope.
func (h *PassageHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	data, err := h.service.ExportJSON(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Text handles GET /passages/{passageID}/text
func (h *PassageHandler) Text(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	paragraphs, err := h.service.Text(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":         id,
		"paragraphs": paragraphs,
	})
}

// Scenes handles GET /passages/{passageID}/scenes
func (h *PassageHandler) Scenes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	scenes, err := h.service.Scenes(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"scenes": scenes,
	})
}

// Validate handles POST /passages/{passageID}/validate
func (h *PassageHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	if err := h.service.Validate(r.Context(), id); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":    id,
		"valid": true,
	})
}

// Pull handles POST /passages/{passageID}/pull
func (h *PassageHandler) Pull(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	p, err := h.service.Pull(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to pull passage",
			zap.String("passageID", id),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, summarize(p))
}

// Push handles POST /passages/{passageID}/push
func (h *PassageHandler) Push(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	if err := h.service.Push(r.Context(), id); err != nil {
		h.logger.Error("failed to push passage",
			zap.String("passageID", id),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"pushed": true,
	})
}

func summarize(p *graph.Passage) PassageSummary {
	summary := PassageSummary{
		ID:     p.ID(),
		Layers: []LayerSummary{},
		Attrib: p.Attrib(),
	}
	for _, layer := range p.Layers() {
		summary.Layers = append(summary.Layers, LayerSummary{
			ID:    layer.ID(),
			Nodes: len(layer.All()),
		})
	}
	return summary
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ModelInfo is one entry in the models listing.
type ModelInfo struct {
	ID          string `json:"id"`
	Object      string `json:"object"`
	Created     int64  `json:"created"`
	OwnedBy     string `json:"owned_by"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// ModelList is the body of GET /api/v1/models.
type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

// ModelsHandler serves GET /api/v1/models.
type ModelsHandler struct {
	lister ModelLister
}

// NewModelsHandler builds a models handler over the given lister.
func NewModelsHandler(lister ModelLister) *ModelsHandler {
	return &ModelsHandler{lister: lister}
}

// List returns the enabled models in the OpenAI list shape.
func (h *ModelsHandler) List(c *gin.Context) {
	configs, err := h.lister.List(c.Request.Context())
	if err != nil {
		log.Errorf("models listing failed: %v", err)
		WriteError(c, err)
		return
	}
	created := time.Now().Unix()
	data := make([]ModelInfo, 0, len(configs))
	for _, cfg := range configs {
		data = append(data, ModelInfo{
			ID:          cfg.ID,
			Object:      "model",
			Created:     created,
			OwnedBy:     "language-model-gateway",
			Name:        cfg.Name,
			Description: cfg.Description,
		})
	}
	c.JSON(http.StatusOK, ModelList{Object: "list", Data: data})
}

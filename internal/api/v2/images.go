package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/datastore"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/errors"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/imageresolver"
)

// initImageRoutes registers the image resolution and admin endpoints.
func (c *Controller) initImageRoutes() {
	c.Group.GET("/images/resolve", c.ResolveImage)
	c.Group.GET("/images/src", c.ResolveSource)
	// Wildcard instead of a named param so composite ship ids with slashes match
	c.Group.GET("/images/entity/:entityType/*", c.GetEntityImages)
	c.Group.POST("/images", c.UpsertImage)
	c.Group.DELETE("/images/:id", c.DeleteImage)
}

// ResolveResponse is the answer to one resolution request.
type ResolveResponse struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// ResolveImage resolves an entity image triple to a renderable URL.
func (c *Controller) ResolveImage(ctx echo.Context) error {
	entityType := ctx.QueryParam("entity_type")
	entityID := ctx.QueryParam("entity_id")
	imageType := ctx.QueryParam("image_type")
	fallback := ctx.QueryParam("fallback")

	if entityType == "" || entityID == "" || imageType == "" {
		return c.HandleError(ctx, nil, "entity_type, entity_id and image_type are required", http.StatusBadRequest)
	}

	key := imageresolver.CacheKey(entityType, entityID, imageType)
	_, warmed := c.Resolver.Cache().Get(key)

	url := c.Resolver.Resolve(ctx.Request().Context(), entityType, entityID, imageType, fallback)

	if fallback == "" {
		fallback = c.Resolver.Conventions().Placeholder
	}
	source := "override"
	switch {
	case warmed:
		source = "cache"
	case url == fallback:
		source = "fallback"
	}
	return ctx.JSON(http.StatusOK, ResolveResponse{URL: url, Source: source})
}

// SourceResponse is the answer to one source validation request. Provider is
// true when the resolved source is served by our own object storage, in
// either URL shape, and is therefore already optimized.
type SourceResponse struct {
	Src      string `json:"src"`
	Status   string `json:"status"`
	Provider bool   `json:"provider"`
}

// ResolveSource runs a raw value through the source validator.
func (c *Controller) ResolveSource(ctx echo.Context) error {
	raw := ctx.QueryParam("src")
	fallback := ctx.QueryParam("fallback")
	if fallback == "" {
		fallback = c.Resolver.Conventions().Placeholder
	}

	opts := imageresolver.SourceOptions{
		EntityType:  ctx.QueryParam("entity_type"),
		EntityID:    ctx.QueryParam("entity_id"),
		ImageType:   ctx.QueryParam("image_type"),
		Fallback:    fallback,
		Diagnostics: c.Diagnostics,
	}
	if c.Metrics != nil {
		opts.Metrics = c.Metrics.Resolver
	}
	resolved, status := imageresolver.ResolveImageSrc(raw, opts)

	resp := SourceResponse{Src: resolved, Status: string(status)}
	if c.Storage != nil {
		resp.Provider = c.Storage.IsProviderURL(resolved)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// GetEntityImages lists all image records for one entity.
func (c *Controller) GetEntityImages(ctx echo.Context) error {
	entityType := ctx.Param("entityType")
	entityID := ctx.Param("*")
	if entityType == "" || entityID == "" {
		return c.HandleError(ctx, nil, "entity type and id are required", http.StatusBadRequest)
	}

	records, err := c.DS.GetImagesForEntity(ctx.Request().Context(), entityType, entityID)
	if err != nil {
		return c.HandleError(ctx, err, "failed to list entity images", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, toImageResponses(records))
}

// ImageUpsertRequest is the admin write payload.
type ImageUpsertRequest struct {
	Bucket             string   `json:"bucket"`
	Path               string   `json:"path"`
	EntityType         string   `json:"entity_type"`
	EntityID           string   `json:"entity_id"`
	ImageType          string   `json:"image_type"`
	AltText            string   `json:"alt_text"`
	Width              int      `json:"width"`
	Height             int      `json:"height"`
	FileSize           int64    `json:"file_size"`
	Format             string   `json:"format"`
	SEOCompliant       bool     `json:"seo_compliant"`
	ValidationWarnings []string `json:"validation_warnings"`
}

// ImageResponse is the JSON shape of one image record.
type ImageResponse struct {
	ID                 uint     `json:"id"`
	Bucket             string   `json:"bucket"`
	Path               string   `json:"path"`
	EntityType         string   `json:"entity_type"`
	EntityID           string   `json:"entity_id"`
	ImageType          string   `json:"image_type"`
	AltText            string   `json:"alt_text"`
	Width              int      `json:"width"`
	Height             int      `json:"height"`
	FileSize           int64    `json:"file_size"`
	Format             string   `json:"format"`
	SEOCompliant       bool     `json:"seo_compliant"`
	ValidationWarnings []string `json:"validation_warnings"`
	PublicURL          string   `json:"public_url"`
}

func (c *Controller) toImageResponse(r *datastore.ImageRecord) ImageResponse {
	return ImageResponse{
		ID:                 r.ID,
		Bucket:             r.Bucket,
		Path:               r.Path,
		EntityType:         r.EntityType,
		EntityID:           r.EntityID,
		ImageType:          r.ImageType,
		AltText:            r.AltText,
		Width:              r.Width,
		Height:             r.Height,
		FileSize:           r.FileSize,
		Format:             r.Format,
		SEOCompliant:       r.SEOCompliant,
		ValidationWarnings: r.Warnings(),
		PublicURL:          c.Resolver.Conventions().PublicURL(r.Bucket, r.Path),
	}
}

func toImageResponses(records []datastore.ImageRecord) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for i := range records {
		r := &records[i]
		out = append(out, map[string]any{
			"id":                  r.ID,
			"bucket":              r.Bucket,
			"path":                r.Path,
			"entity_type":         r.EntityType,
			"entity_id":           r.EntityID,
			"image_type":          r.ImageType,
			"alt_text":            r.AltText,
			"width":               r.Width,
			"height":              r.Height,
			"file_size":           r.FileSize,
			"format":              r.Format,
			"seo_compliant":       r.SEOCompliant,
			"validation_warnings": r.Warnings(),
		})
	}
	return out
}

// UpsertImage writes an image record and invalidates the resolution cache for
// the entity before reporting success, so subsequently rendered pages pick up
// the new override rather than a stale cached miss.
func (c *Controller) UpsertImage(ctx echo.Context) error {
	var req ImageUpsertRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
	}
	if req.Bucket == "" || req.Path == "" || req.EntityType == "" || req.EntityID == "" || req.ImageType == "" {
		return c.HandleError(ctx, nil, "bucket, path, entity_type, entity_id and image_type are required", http.StatusBadRequest)
	}

	record := &datastore.ImageRecord{
		Bucket:       req.Bucket,
		Path:         req.Path,
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		ImageType:    req.ImageType,
		AltText:      req.AltText,
		Width:        req.Width,
		Height:       req.Height,
		FileSize:     req.FileSize,
		Format:       req.Format,
		SEOCompliant: req.SEOCompliant,
	}
	record.SetWarnings(req.ValidationWarnings)

	if err := c.DS.SaveImage(ctx.Request().Context(), record); err != nil {
		return c.HandleError(ctx, err, "failed to save image record", http.StatusInternalServerError)
	}

	c.Resolver.Invalidate(req.EntityType, req.EntityID)

	return ctx.JSON(http.StatusOK, c.toImageResponse(record))
}

// DeleteImage removes an image record and invalidates the resolution cache
// for the owning entity.
func (c *Controller) DeleteImage(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return c.HandleError(ctx, err, "invalid image id", http.StatusBadRequest)
	}

	deleted, err := c.DS.DeleteImage(ctx.Request().Context(), uint(id))
	switch {
	case err != nil && errors.IsNotFound(err):
		return c.HandleError(ctx, err, "image record not found", http.StatusNotFound)
	case err != nil:
		return c.HandleError(ctx, err, "failed to delete image record", http.StatusInternalServerError)
	}

	c.Resolver.Invalidate(deleted.EntityType, deleted.EntityID)

	return ctx.NoContent(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aicd-directory/pkg/models"
	"aicd-directory/pkg/services"
	"aicd-directory/pkg/storage"
)

// Reported with every write accepted while the backing store is
// unreachable, so the caller never believes degraded data was persisted.
const degradedSaveMessage = "changes accepted in memory only; storage is unreachable and they are not durably persisted"

// ListSections returns the whole tree. Storage failures never surface as
// hard errors on reads; the placeholder tree is served with degraded set.
func (s *Server) ListSections(c *gin.Context) {
	sections, degraded, _ := s.loadSections(c)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sections":  sections,
		"degraded":  degraded,
		"timestamp": timestamp(),
		"requestId": requestID(c),
	})
}

// ReplaceSections validates and persists a full tree, echoing the
// normalized result back.
func (s *Server) ReplaceSections(c *gin.Context) {
	var sections []models.Section
	if err := c.ShouldBindJSON(&sections); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "body must be an array of well-formed sections")
		return
	}
	s.saveAndRespond(c, sections)
}

func (s *Server) GetSection(c *gin.Context) {
	sections, degraded, _ := s.loadSections(c)
	section := models.FindSection(sections, c.Param("id"))
	if section == nil {
		respondError(c, http.StatusNotFound, codeNotFound, "section not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"section":   section,
		"degraded":  degraded,
		"timestamp": timestamp(),
		"requestId": requestID(c),
	})
}

func (s *Server) UpdateSection(c *gin.Context) {
	var body models.Section
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "invalid section body")
		return
	}

	sections, ok := s.loadForMutation(c)
	if !ok {
		return
	}
	section := models.FindSection(sections, c.Param("id"))
	if section == nil {
		respondError(c, http.StatusNotFound, codeNotFound, "section not found")
		return
	}

	// Merge semantics: absent fields keep their current values, so a
	// rename does not drop the section's categories.
	if body.ID != "" {
		section.ID = body.ID
	}
	if body.Title != "" {
		section.Title = body.Title
	}
	if body.Categories != nil {
		section.Categories = body.Categories
	}

	updated := *section
	if s.save(c, sections) {
		s.respondNode(c, "section", updated)
	}
}

func (s *Server) DeleteSection(c *gin.Context) {
	sections, ok := s.loadForMutation(c)
	if !ok {
		return
	}
	sections, removed := models.RemoveSection(sections, c.Param("id"))
	if !removed {
		respondError(c, http.StatusNotFound, codeNotFound, "section not found")
		return
	}
	if s.save(c, sections) {
		s.respondDeleted(c, "section deleted")
	}
}

func (s *Server) GetCategory(c *gin.Context) {
	sections, degraded, _ := s.loadSections(c)
	category := models.FindCategory(models.FindSection(sections, c.Param("id")), c.Param("categoryID"))
	if category == nil {
		respondError(c, http.StatusNotFound, codeNotFound, "category not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"category":  category,
		"degraded":  degraded,
		"timestamp": timestamp(),
		"requestId": requestID(c),
	})
}

func (s *Server) UpdateCategory(c *gin.Context) {
	var body models.Category
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "invalid category body")
		return
	}

	sections, ok := s.loadForMutation(c)
	if !ok {
		return
	}
	category := models.FindCategory(models.FindSection(sections, c.Param("id")), c.Param("categoryID"))
	if category == nil {
		respondError(c, http.StatusNotFound, codeNotFound, "category not found")
		return
	}

	if body.ID != "" {
		category.ID = body.ID
	}
	if body.Title != "" {
		category.Title = body.Title
	}
	if body.Icon != "" {
		category.Icon = body.Icon
	}
	if body.Items != nil {
		category.Items = body.Items
	}
	if body.DefaultPros != nil {
		category.DefaultPros = body.DefaultPros
	}
	if body.DefaultCons != nil {
		category.DefaultCons = body.DefaultCons
	}
	category.Count = len(category.Items)

	updated := *category
	if s.save(c, sections) {
		s.respondNode(c, "category", updated)
	}
}

func (s *Server) DeleteCategory(c *gin.Context) {
	sections, ok := s.loadForMutation(c)
	if !ok {
		return
	}
	section := models.FindSection(sections, c.Param("id"))
	if section == nil || !models.RemoveCategory(section, c.Param("categoryID")) {
		respondError(c, http.StatusNotFound, codeNotFound, "category not found")
		return
	}
	if s.save(c, sections) {
		s.respondDeleted(c, "category deleted")
	}
}

func (s *Server) GetItem(c *gin.Context) {
	sections, degraded, _ := s.loadSections(c)
	category := models.FindCategory(models.FindSection(sections, c.Param("id")), c.Param("categoryID"))
	item := models.FindItem(category, c.Param("slug"))
	if item == nil {
		respondError(c, http.StatusNotFound, codeNotFound, "item not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"item":      item,
		"degraded":  degraded,
		"timestamp": timestamp(),
		"requestId": requestID(c),
	})
}

func (s *Server) UpdateItem(c *gin.Context) {
	var body models.Item
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "invalid item body")
		return
	}

	sections, ok := s.loadForMutation(c)
	if !ok {
		return
	}
	category := models.FindCategory(models.FindSection(sections, c.Param("id")), c.Param("categoryID"))
	item := models.FindItem(category, c.Param("slug"))
	if item == nil {
		respondError(c, http.StatusNotFound, codeNotFound, "item not found")
		return
	}

	if body.Slug == "" {
		body.Slug = c.Param("slug")
	}
	*item = body

	updated := *item
	if s.save(c, sections) {
		s.respondNode(c, "item", updated)
	}
}

func (s *Server) DeleteItem(c *gin.Context) {
	sections, ok := s.loadForMutation(c)
	if !ok {
		return
	}
	category := models.FindCategory(models.FindSection(sections, c.Param("id")), c.Param("categoryID"))
	if !models.RemoveItem(category, c.Param("slug")) {
		respondError(c, http.StatusNotFound, codeNotFound, "item not found")
		return
	}
	if s.save(c, sections) {
		s.respondDeleted(c, "item deleted")
	}
}

// loadSections absorbs read failures for the read-only endpoints: the
// store's own fallback content (if it returned any) or the placeholder
// tree is served with degraded set.
func (s *Server) loadSections(c *gin.Context) ([]models.Section, bool, error) {
	sections, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.logger.Warn("load failed, serving fallback sections",
			zap.Error(err),
			zap.String("request_id", requestID(c)))
		if sections == nil {
			sections = storage.PlaceholderSections()
		}
		return sections, true, err
	}
	return sections, s.store.Degraded(), nil
}

// loadForMutation loads the tree as the base for a scoped mutation. A read
// failure or a degraded store is a hard error here: mutating a fallback
// tree and writing it back would destroy the stored data.
func (s *Server) loadForMutation(c *gin.Context) ([]models.Section, bool) {
	sections, err := s.store.Load(c.Request.Context())
	if err != nil || s.store.Degraded() {
		s.logger.Error("load failed, refusing mutation",
			zap.Error(err),
			zap.String("request_id", requestID(c)))
		respondError(c, http.StatusServiceUnavailable, codeStorage, "storage unavailable, mutation refused")
		return nil, false
	}
	return sections, true
}

// save validates and replaces the stored tree, then broadcasts the change.
// It writes an error response itself and returns false on failure, so
// scoped mutations carry the same validation contract as replace-all.
func (s *Server) save(c *gin.Context, sections []models.Section) bool {
	sections = models.NormalizeSections(sections)
	if err := models.ValidateSections(sections); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidInput, "resulting tree is not well-formed")
		return false
	}
	if err := s.store.Replace(c.Request.Context(), sections); err != nil {
		s.logger.Error("replace failed",
			zap.Error(err),
			zap.String("request_id", requestID(c)))
		respondError(c, http.StatusServiceUnavailable, codeStorage, "failed to persist sections")
		return false
	}
	s.notifier.Publish(services.NewEvent("content-updated"))
	return true
}

func (s *Server) saveAndRespond(c *gin.Context, sections []models.Section) {
	sections = models.NormalizeSections(sections)
	if !s.save(c, sections) {
		return
	}

	resp := gin.H{
		"success":   true,
		"sections":  sections,
		"degraded":  s.store.Degraded(),
		"timestamp": timestamp(),
		"requestId": requestID(c),
	}
	if s.store.Degraded() {
		resp["warning"] = degradedSaveMessage
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) respondNode(c *gin.Context, key string, node interface{}) {
	resp := gin.H{
		"success":   true,
		key:         node,
		"degraded":  s.store.Degraded(),
		"timestamp": timestamp(),
		"requestId": requestID(c),
	}
	if s.store.Degraded() {
		resp["warning"] = degradedSaveMessage
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) respondDeleted(c *gin.Context, message string) {
	resp := gin.H{
		"success":   true,
		"message":   message,
		"degraded":  s.store.Degraded(),
		"timestamp": timestamp(),
		"requestId": requestID(c),
	}
	if s.store.Degraded() {
		resp["warning"] = degradedSaveMessage
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"errors"

	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// storeFor resolves the caller's note store, responding with 401 when the
// request carries no authenticated user.
func storeFor(c *gin.Context, stores *usecase.StoreManager) (*usecase.NoteStore, bool) {
	userID := c.GetString("user_id")
	store, err := stores.StoreFor(userID)
	if err != nil {
		if errors.Is(err, model.ErrNotAuthenticated) {
			utils.Unauthorized(c, err.Error())
		} else {
			utils.InternalError(c, err.Error())
		}
		return nil, false
	}
	return store, true
}

// GetNotesHandler returns the full store state: raw notes, the derived
// filtered/sorted/pin-partitioned list, loading flag, last error and the
// current view controls.
func GetNotesHandler(c *gin.Context, stores *usecase.StoreManager) {
	store, ok := storeFor(c, stores)
	if !ok {
		return
	}
	utils.Success(c, store.State())
}

func GetNoteHandler(c *gin.Context, stores *usecase.StoreManager) {
	store, ok := storeFor(c, stores)
	if !ok {
		return
	}

	note, err := store.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrNoteNotFound) {
			utils.NotFound(c, "note not found")
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, note)
}

func CreateNoteHandler(c *gin.Context, stores *usecase.StoreManager) {
	store, ok := storeFor(c, stores)
	if !ok {
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	result := store.Create(c.Request.Context(), req.Fields())
	if !result.Success {
		utils.BadRequest(c, result.Error)
		return
	}

	utils.Created(c, result.Note)
}

func UpdateNoteHandler(c *gin.Context, stores *usecase.StoreManager) {
	store, ok := storeFor(c, stores)
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	patch := req.Patch()
	if patch.IsEmpty() {
		utils.BadRequest(c, "no fields to update")
		return
	}

	// Ownership check first; a foreign note reads as missing.
	if _, err := store.GetNote(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, model.ErrNoteNotFound) {
			utils.NotFound(c, "note not found")
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	result := store.Update(c.Request.Context(), c.Param("id"), patch)
	if !result.Success {
		utils.BadRequest(c, result.Error)
		return
	}

	utils.Success(c, result.Note)
}

func DeleteNoteHandler(c *gin.Context, stores *usecase.StoreManager) {
	store, ok := storeFor(c, stores)
	if !ok {
		return
	}

	if _, err := store.GetNote(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, model.ErrNoteNotFound) {
			utils.NotFound(c, "note not found")
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	result := store.Delete(c.Request.Context(), c.Param("id"))
	if !result.Success {
		utils.BadRequest(c, result.Error)
		return
	}

	utils.Success(c, gin.H{"message": "Note deleted successfully"})
}

func TogglePinHandler(c *gin.Context, stores *usecase.StoreManager) {
	store, ok := storeFor(c, stores)
	if !ok {
		return
	}

	note, err := store.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrNoteNotFound) {
			utils.NotFound(c, "note not found")
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	result := store.TogglePin(c.Request.Context(), note)
	if !result.Success {
		utils.BadRequest(c, result.Error)
		return
	}
	utils.TrackNoteOperation("pin")

	utils.Success(c, result.Note)
}

// SetViewControlsHandler applies any subset of search term, sorting, color
// filter and tag filter, then returns the recomputed state.
func SetViewControlsHandler(c *gin.Context, stores *usecase.StoreManager) {
	store, ok := storeFor(c, stores)
	if !ok {
		return
	}

	var req dto.ViewControlsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.SearchTerm != nil {
		store.SetSearchTerm(*req.SearchTerm)
	}
	if req.SortBy != nil && req.SortOrder != nil {
		store.SetSorting(*req.SortBy, *req.SortOrder)
	}
	if req.SelectedColor != nil {
		store.SetColorFilter(*req.SelectedColor)
	}
	if req.SelectedTags != nil {
		store.SetTagFilter(*req.SelectedTags)
	}

	utils.Success(c, store.State())
}

func ClearErrorHandler(c *gin.Context, stores *usecase.StoreManager) {
	store, ok := storeFor(c, stores)
	if !ok {
		return
	}
	store.ClearError()
	utils.Success(c, gin.H{"message": "Error cleared"})
}

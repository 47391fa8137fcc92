package main

import (
	"net/http"
	"strconv"

	"personaforge/models"

	"github.com/gin-gonic/gin"
)

// The resource facades are plain CRUD over GORM. Handlers are generic;
// each entity supplies its primary-key parser, default ordering, and any
// per-action overrides (users override the write actions so passwords are
// hashed and never echoed).

// numericID parses the :id route param for integer-keyed tables.
func numericID(raw string) (any, error) {
	return strconv.ParseUint(raw, 10, 64)
}

// stringID passes the :id param through for string-keyed tables.
func stringID(raw string) (any, error) {
	return raw, nil
}

func listHandler[T any](order string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []T
		q := db.Order(order)
		if err := q.Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "query failed"})
			return
		}
		if items == nil {
			items = []T{}
		}
		c.JSON(http.StatusOK, items)
	}
}

func retrieveHandler[T any](parseID func(string) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		var item T
		if err := db.First(&item, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func createHandler[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var item T
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		if err := db.Create(&item).Error; err != nil {
			if isUniqueConstraintError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Duplicate value violates a uniqueness constraint"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "create failed"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// updateHandler serves both full and partial updates. For PATCH, the
// incoming body is bound over the stored row so omitted fields keep their
// values; for PUT it is bound over a zero value. The route param owns the
// primary key, so a payload cannot move the row.
func updateHandler[T any](parseID func(string) (any, error), partial bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		var stored T
		if err := db.First(&stored, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		var incoming T
		if partial {
			incoming = stored
		}
		if err := c.ShouldBindJSON(&incoming); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		err = db.Model(&stored).Where("id = ?", id).
			Select("*").Omit("id", "created_at").
			Updates(&incoming).Error
		if err != nil {
			if isUniqueConstraintError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Duplicate value violates a uniqueness constraint"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "update failed"})
			return
		}
		var updated T
		if err := db.First(&updated, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "update failed"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func destroyHandler[T any](parseID func(string) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		var item T
		if err := db.First(&item, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		if err := db.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "delete failed"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// crudResource assembles the default generic handler set. The protected
// list deliberately excludes "list": every dataset resource keeps its
// public list view.
func crudResource[T any](parseID func(string) (any, error), order string) resource {
	return resource{
		protected: []string{
			actionCreate, actionUpdate, actionPartialUpdate, actionRetrieve, actionDestroy,
		},
		list:          listHandler[T](order),
		create:        createHandler[T](),
		retrieve:      retrieveHandler[T](parseID),
		update:        updateHandler[T](parseID, false),
		partialUpdate: updateHandler[T](parseID, true),
		destroy:       destroyHandler[T](parseID),
	}
}

func personaResource() resource {
	return crudResource[models.Persona](stringID, "id")
}

func transactionResource() resource {
	return crudResource[models.FinancialTransaction](numericID, "timestamp desc")
}

func conversationResource() resource {
	return crudResource[models.ConversationMessage](numericID, "conversation_id, message_seq")
}

// userResource keeps the generic read/destroy handlers but overrides the
// write actions: passwords arrive in the payload and must be hashed by the
// identity store, and the stored hash must never round-trip.
func userResource() resource {
	res := crudResource[models.User](numericID, "id")
	res.create = createUserHandler
	res.update = updateUserHandler
	res.partialUpdate = updateUserHandler
	return res
}

func createUserHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		IsActive *bool  `json:"is_active"`
		IsStaff  *bool  `json:"is_staff"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user, err := CreateUser(req.Email, req.Password, UserAttrs{IsActive: req.IsActive, IsStaff: req.IsStaff})
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func updateUserHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	var attrs map[string]any
	if err := c.ShouldBindJSON(&attrs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user, err := UpdateUser(uint(id), attrs)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

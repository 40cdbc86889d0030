package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// collection wires the five CRUD routes of one entity. In is the request
// body, Out the representation, F the list filter.
type collection[In, Out, F any] struct {
	h        *Handler
	name     string
	resource string

	filter func(c *gin.Context) F
	list   func(ctx context.Context, f F) ([]Out, error)
	get    func(ctx context.Context, id string) (*Out, error)
	create func(c *gin.Context, in *In) (*Out, error)
	update func(ctx context.Context, id string, in *In) error
	remove func(ctx context.Context, id string) error
	idOf   func(out *Out) string
}

func (col *collection[In, Out, F]) register(g *gin.RouterGroup) {
	rg := g.Group("/" + col.name)
	rg.GET("", col.handleList)
	rg.GET("/:id", col.handleGet)
	rg.POST("", col.handleCreate)
	rg.PUT("/:id", col.handleUpdate)
	rg.DELETE("/:id", col.handleDelete)
}

func (col *collection[In, Out, F]) handleList(c *gin.Context) {
	items, err := col.list(c.Request.Context(), col.filter(c))
	if err != nil {
		col.h.fail(c, col.resource, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (col *collection[In, Out, F]) handleGet(c *gin.Context) {
	item, err := col.get(c.Request.Context(), c.Param("id"))
	if err != nil {
		col.h.fail(c, col.resource, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (col *collection[In, Out, F]) handleCreate(c *gin.Context) {
	var in In
	if !col.h.bind(c, &in) {
		return
	}
	item, err := col.create(c, &in)
	if err != nil {
		col.h.fail(c, col.resource, err)
		return
	}
	c.Header("Location", "/api/"+col.name+"/"+col.idOf(item))
	c.JSON(http.StatusCreated, item)
}

func (col *collection[In, Out, F]) handleUpdate(c *gin.Context) {
	var in In
	if !col.h.bind(c, &in) {
		return
	}
	if err := col.update(c.Request.Context(), c.Param("id"), &in); err != nil {
		col.h.fail(c, col.resource, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (col *collection[In, Out, F]) handleDelete(c *gin.Context) {
	if err := col.remove(c.Request.Context(), c.Param("id")); err != nil {
		col.h.fail(c, col.resource, err)
		return
	}
	c.Status(http.StatusNoContent)
}

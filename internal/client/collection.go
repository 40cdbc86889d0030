package client

import (
	"context"
	"net/http"
	"net/url"
	"path"
)

// Collection is the typed CRUD surface of one /api/<name> collection
type Collection[In, Out any] struct {
	c    *Client
	name string
}

func NewCollection[In, Out any](c *Client, name string) *Collection[In, Out] {
	return &Collection[In, Out]{c: c, name: name}
}

func (col *Collection[In, Out]) base() string {
	return "/api/" + col.name
}

func (col *Collection[In, Out]) item(id string) string {
	return col.base() + "/" + url.PathEscape(id)
}

// List returns every item matching filter, in server order
func (col *Collection[In, Out]) List(ctx context.Context, filter url.Values) ([]Out, error) {
	var out []Out
	if _, err := col.c.Do(ctx, http.MethodGet, col.base(), filter, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (col *Collection[In, Out]) Get(ctx context.Context, id string) (*Out, error) {
	var out Out
	if _, err := col.c.Do(ctx, http.MethodGet, col.item(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create returns the stored item and the id taken from the Location header
func (col *Collection[In, Out]) Create(ctx context.Context, in *In) (*Out, string, error) {
	var out Out
	hdr, err := col.c.Do(ctx, http.MethodPost, col.base(), nil, in, &out)
	if err != nil {
		return nil, "", err
	}
	return &out, path.Base(hdr.Get("Location")), nil
}

func (col *Collection[In, Out]) Update(ctx context.Context, id string, in *In) error {
	_, err := col.c.Do(ctx, http.MethodPut, col.item(id), nil, in, nil)
	return err
}

func (col *Collection[In, Out]) Delete(ctx context.Context, id string) error {
	_, err := col.c.Do(ctx, http.MethodDelete, col.item(id), nil, nil, nil)
	return err
}

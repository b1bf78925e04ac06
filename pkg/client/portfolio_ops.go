package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
)

// patchDoc applies fn to the cached document under the write lock. A client
// that never called Refresh has nothing to patch; that is not an error. When
// the patch itself fails (a stale cache that cannot absorb the returned
// element) the cache is dropped rather than left diverged from the store;
// the next Refresh rebuilds it.
func (c *Client) patchDoc(fn func(*portfolio.Document) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc == nil {
		return
	}
	if err := fn(c.doc); err != nil {
		c.doc = nil
	}
}

// UpdateSection replaces a singleton section (hero, about, contact, social,
// theme) and returns the stored value. The cached document is patched from
// the server's response, not from the submitted value.
func (c *Client) UpdateSection(ctx context.Context, section string, value any) (json.RawMessage, error) {
	if err := c.requireCredential(); err != nil {
		return nil, err
	}
	if !portfolio.IsSingletonSection(section) {
		return nil, fmt.Errorf("client: %q is not a singleton section", section)
	}
	var stored json.RawMessage
	if err := c.doJSON(ctx, http.MethodPut, "/api/portfolio/"+section, value, &stored); err != nil {
		return nil, err
	}
	c.patchDoc(func(d *portfolio.Document) error {
		return d.SetSection(section, stored)
	})
	return stored, nil
}

// AddItem appends an element to one of the array sections and returns the
// stored element, including its server-generated id.
func (c *Client) AddItem(ctx context.Context, array string, item any) (json.RawMessage, error) {
	if err := c.requireCredential(); err != nil {
		return nil, err
	}
	if !portfolio.IsArraySection(array) {
		return nil, fmt.Errorf("client: %q is not an array section", array)
	}
	var stored json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/api/portfolio/"+array, item, &stored); err != nil {
		return nil, err
	}
	c.patchDoc(func(d *portfolio.Document) error {
		return d.ApplyAdd(array, stored)
	})
	return stored, nil
}

// UpdateItem merges patch into the element with the given id and returns the
// merged element as stored.
func (c *Client) UpdateItem(ctx context.Context, array, id string, patch any) (json.RawMessage, error) {
	if err := c.requireCredential(); err != nil {
		return nil, err
	}
	if !portfolio.IsArraySection(array) {
		return nil, fmt.Errorf("client: %q is not an array section", array)
	}
	path := "/api/portfolio/" + array + "/" + url.PathEscape(id)
	var stored json.RawMessage
	if err := c.doJSON(ctx, http.MethodPut, path, patch, &stored); err != nil {
		return nil, err
	}
	c.patchDoc(func(d *portfolio.Document) error {
		return d.ApplyUpdate(array, stored)
	})
	return stored, nil
}

// DeleteItem removes the element with the given id from an array section.
// Deleting an id that is already gone succeeds.
func (c *Client) DeleteItem(ctx context.Context, array, id string) error {
	if err := c.requireCredential(); err != nil {
		return err
	}
	if !portfolio.IsArraySection(array) {
		return fmt.Errorf("client: %q is not an array section", array)
	}
	path := "/api/portfolio/" + array + "/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.patchDoc(func(d *portfolio.Document) error {
		return d.ApplyRemove(array, id)
	})
	return nil
}

// AddCustomSection creates a user-defined section with the given field
// schema and returns the stored section, including its generated id.
func (c *Client) AddCustomSection(ctx context.Context, name string, fields []portfolio.FieldDefinition) (json.RawMessage, error) {
	if err := c.requireCredential(); err != nil {
		return nil, err
	}
	body := map[string]any{"name": name, "fields": fields}
	var stored json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/api/portfolio/custom-sections", body, &stored); err != nil {
		return nil, err
	}
	c.patchDoc(func(d *portfolio.Document) error {
		return d.ApplyAddCustomSection(stored)
	})
	return stored, nil
}

// DeleteCustomSection removes a user-defined section and all its entries.
func (c *Client) DeleteCustomSection(ctx context.Context, sectionID string) error {
	if err := c.requireCredential(); err != nil {
		return err
	}
	path := "/api/portfolio/custom-sections/" + url.PathEscape(sectionID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.patchDoc(func(d *portfolio.Document) error {
		d.ApplyRemoveCustomSection(sectionID)
		return nil
	})
	return nil
}

// AddEntry appends an entry to a custom section. Values use the section's
// flat wire shape, e.g. {"title": "First post", "year": 2020}.
func (c *Client) AddEntry(ctx context.Context, sectionID string, values any) (json.RawMessage, error) {
	if err := c.requireCredential(); err != nil {
		return nil, err
	}
	path := "/api/portfolio/custom-sections/" + url.PathEscape(sectionID) + "/entries"
	var stored json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, path, values, &stored); err != nil {
		return nil, err
	}
	c.patchDoc(func(d *portfolio.Document) error {
		return d.ApplyAddEntry(sectionID, stored)
	})
	return stored, nil
}

// UpdateEntry merges values into an existing entry and returns the merged
// entry as stored.
func (c *Client) UpdateEntry(ctx context.Context, sectionID, entryID string, values any) (json.RawMessage, error) {
	if err := c.requireCredential(); err != nil {
		return nil, err
	}
	path := "/api/portfolio/custom-sections/" + url.PathEscape(sectionID) + "/entries/" + url.PathEscape(entryID)
	var stored json.RawMessage
	if err := c.doJSON(ctx, http.MethodPut, path, values, &stored); err != nil {
		return nil, err
	}
	c.patchDoc(func(d *portfolio.Document) error {
		return d.ApplyUpdateEntry(sectionID, stored)
	})
	return stored, nil
}

// DeleteEntry removes a single entry from a custom section.
func (c *Client) DeleteEntry(ctx context.Context, sectionID, entryID string) error {
	if err := c.requireCredential(); err != nil {
		return err
	}
	path := "/api/portfolio/custom-sections/" + url.PathEscape(sectionID) + "/entries/" + url.PathEscape(entryID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.patchDoc(func(d *portfolio.Document) error {
		d.ApplyRemoveEntry(sectionID, entryID)
		return nil
	})
	return nil
}

// SubmitContact sends a visitor message. No credential is required; the
// cached document is not touched.
func (c *Client) SubmitContact(ctx context.Context, name, email, message string) error {
	body := map[string]string{"name": name, "email": email, "message": message}
	return c.doJSON(ctx, http.MethodPost, "/api/portfolio/contact", body, nil)
}

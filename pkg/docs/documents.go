package docs

import (
	"context"
	"fmt"
	"net/url"
)

// GetDocument retrieves a single document, including the abilities the
// current user holds on it.
func (c *Client) GetDocument(ctx context.Context, documentID string) (Document, error) {
	var doc Document

	docURL := customAPIRoot + "documents/" + url.PathEscape(documentID) + "/"
	if err := c.getAndDecode(ctx, docURL, &doc, "document"); err != nil {
		return doc, err
	}

	return doc, nil
}

// ListDocuments retrieves one page of documents visible to the current user.
// Pass an empty cursor for the first page; pass the Next value of a previous
// page to continue.
func (c *Client) ListDocuments(ctx context.Context, cursor string) (DocumentList, error) {
	var list DocumentList

	listURL := customAPIRoot + "documents/"
	if cursor != "" {
		listURL = cursor
	}

	if err := c.getAndDecode(ctx, listURL, &list, "document list"); err != nil {
		return list, err
	}

	return list, nil
}

// DeleteDocument removes a document. Requires the destroy ability.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	docURL := customAPIRoot + "documents/" + url.PathEscape(documentID) + "/"
	res, err := c.apiCall(ctx, "DELETE", docURL, "", nil)
	if err != nil {
		return err
	}
	defer closeBodySafely(res.Body, c.logger, "delete document")

	if res.StatusCode != 204 {
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	return nil
}

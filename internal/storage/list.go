package storage

import (
	"net/http"

	"github.com/antonholmquist/jason"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/errors"
)

// parseListResponse extracts object entries from a storage list response.
// Folder placeholders come back without metadata and are skipped.
func parseListResponse(resp *http.Response) ([]ObjectInfo, error) {
	root, err := jason.NewValueFromReader(resp.Body)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryStorageAPI).
			Context("operation", "list_objects").
			Context("stage", "parse").
			Build()
	}

	items, err := root.Array()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryStorageAPI).
			Context("operation", "list_objects").
			Context("stage", "parse").
			Build()
	}

	objects := make([]ObjectInfo, 0, len(items))
	for _, item := range items {
		obj, err := item.Object()
		if err != nil {
			continue
		}

		name, err := obj.GetString("name")
		if err != nil || name == "" {
			continue
		}
		if _, err := obj.GetObject("metadata"); err != nil {
			continue
		}

		info := ObjectInfo{Name: name}
		if size, err := obj.GetInt64("metadata", "size"); err == nil {
			info.Size = size
		}
		if mime, err := obj.GetString("metadata", "mimetype"); err == nil {
			info.ContentType = mime
		}
		objects = append(objects, info)
	}

	return objects, nil
}

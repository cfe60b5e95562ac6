package main

import (
	"fmt"
	"strconv"

	"github.com/ersonp/revmod/internal/application/handlers"
	"github.com/ersonp/revmod/internal/domain/entities"
)

func parseRevisionID(s string) (entities.RevisionID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return entities.NoRevision, fmt.Errorf("%w: invalid revision id %q", handlers.ErrInvalidRequest, s)
	}
	return entities.RevisionID(id), nil
}

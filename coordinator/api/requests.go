package api

import (
	"github.com/absmach/federator/pkg/api"
	pkgerrors "github.com/absmach/federator/pkg/errors"
)

type listEntityReq struct {
	offset, limit uint64
}

func (e *listEntityReq) validate() error {
	if e.limit == 0 || e.limit > api.MaxLimitSize {
		return pkgerrors.ErrInvalidQueryParams
	}

	return nil
}

type statusReq struct{}

package api

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"

	"github.com/absmach/federator/coordinator"
	pkgerrors "github.com/absmach/federator/pkg/errors"
)

func statusEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(statusReq); !ok {
			return statusResponse{}, pkgerrors.ErrInvalidData
		}

		status, err := svc.Status(ctx)
		if err != nil {
			return statusResponse{}, err
		}

		return statusResponse{Status: status}, nil
	}
}

func listParticipantsEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listParticipantsResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return listParticipantsResponse{}, errors.Join(pkgerrors.ErrInvalidQueryParams, err)
		}

		participants, err := svc.ListParticipants(ctx, req.offset, req.limit)
		if err != nil {
			return listParticipantsResponse{}, err
		}

		return listParticipantsResponse{ParticipantPage: participants}, nil
	}
}

func listRoundsEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listRoundsResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return listRoundsResponse{}, errors.Join(pkgerrors.ErrInvalidQueryParams, err)
		}

		rounds, err := svc.ListRounds(ctx, req.offset, req.limit)
		if err != nil {
			return listRoundsResponse{}, err
		}

		return listRoundsResponse{RoundPage: rounds}, nil
	}
}

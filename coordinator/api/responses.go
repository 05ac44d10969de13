package api

import (
	"net/http"

	"github.com/absmach/federator/coordinator"
	"github.com/absmach/federator/pkg/api"
)

var (
	_ api.Response = (*statusResponse)(nil)
	_ api.Response = (*listParticipantsResponse)(nil)
	_ api.Response = (*listRoundsResponse)(nil)
)

type statusResponse struct {
	coordinator.Status
}

func (s statusResponse) Code() int {
	return http.StatusOK
}

func (s statusResponse) Headers() map[string]string {
	return map[string]string{}
}

func (s statusResponse) Empty() bool {
	return false
}

type listParticipantsResponse struct {
	coordinator.ParticipantPage
}

func (l listParticipantsResponse) Code() int {
	return http.StatusOK
}

func (l listParticipantsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listParticipantsResponse) Empty() bool {
	return false
}

type listRoundsResponse struct {
	coordinator.RoundPage
}

func (l listRoundsResponse) Code() int {
	return http.StatusOK
}

func (l listRoundsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listRoundsResponse) Empty() bool {
	return false
}

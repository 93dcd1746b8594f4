package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tatanenfresh/backend/services"
	"go.uber.org/zap"
)

func TestWeatherHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns upstream payload unchanged", func(t *testing.T) {
		client := new(MockWeatherClient)
		handler := NewWeatherHandler(client, logger)

		payload := json.RawMessage(`{"name":"Jakarta","main":{"temp":31.2}}`)
		client.On("Current", mock.Anything, "Jakarta").Return(payload, nil)

		w := httptest.NewRecorder()
		handler.HandleCurrent(w, httptest.NewRequest(http.MethodGet, "/api/weather?city=Jakarta", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, string(payload), w.Body.String())
	})

	t.Run("empty city is passed through for the default", func(t *testing.T) {
		client := new(MockWeatherClient)
		handler := NewWeatherHandler(client, logger)
		client.On("Current", mock.Anything, "").Return(json.RawMessage(`{"name":"Bandung"}`), nil)

		w := httptest.NewRecorder()
		handler.HandleCurrent(w, httptest.NewRequest(http.MethodGet, "/api/weather", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		client.AssertExpectations(t)
	})

	t.Run("upstream failure is a server error", func(t *testing.T) {
		client := new(MockWeatherClient)
		handler := NewWeatherHandler(client, logger)
		client.On("Current", mock.Anything, "Bandung").Return(nil, services.ErrWeatherUnavailable.Wrap(errors.New("401")))

		w := httptest.NewRecorder()
		handler.HandleCurrent(w, httptest.NewRequest(http.MethodGet, "/api/weather?city=Bandung", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

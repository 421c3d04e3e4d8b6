package controller

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"discord-strada/internal/discord"
	"discord-strada/internal/model"
	"discord-strada/internal/router"
	"discord-strada/internal/service"
	"discord-strada/internal/testdata/mockservice"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ControllerTestSuite struct {
	suite.Suite
	app             *fiber.App
	dispatcher      *mockservice.Dispatcher
	activityService *mockservice.ActivityService
	priv            ed25519.PrivateKey
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (s *ControllerTestSuite) SetupTest() {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	s.Require().NoError(err)
	s.priv = priv

	verifier, err := discord.NewVerifier(hex.EncodeToString(pub))
	s.Require().NoError(err)

	s.dispatcher = &mockservice.Dispatcher{}
	s.activityService = &mockservice.ActivityService{}

	ctrl := NewInteractionController(verifier, s.dispatcher, s.activityService)
	s.app = fiber.New()
	s.app.Post("/discord/interactions", ctrl.HandleInteraction)
	s.app.Post("/api/activities", ctrl.CreateActivity)
}

func (s *ControllerTestSuite) signedRequest(body []byte, timestamp string) *http.Request {
	sig := ed25519.Sign(s.priv, append([]byte(timestamp), body...))
	req := httptest.NewRequest(http.MethodPost, "/discord/interactions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	req.Header.Set("X-Signature-Timestamp", timestamp)
	return req
}

func (s *ControllerTestSuite) TestHandleInteraction_RejectsUnsignedRequest() {
	body := []byte(`{"type":1}`)
	req := httptest.NewRequest(http.MethodPost, "/discord/interactions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	s.Equal("invalid request signature", string(raw))
}

func (s *ControllerTestSuite) TestHandleInteraction_RejectsTamperedBody() {
	sig := ed25519.Sign(s.priv, append([]byte("1700000000"), []byte(`{"type":1}`)...))
	req := httptest.NewRequest(http.MethodPost, "/discord/interactions", bytes.NewReader([]byte(`{"type":2}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	req.Header.Set("X-Signature-Timestamp", "1700000000")

	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *ControllerTestSuite) TestHandleInteraction_Pong() {
	s.dispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(i *model.Interaction) bool {
		return i.Type == model.InteractionPing
	})).Return(&model.InteractionResponse{Type: model.ResponsePong}, nil)

	resp, err := s.app.Test(s.signedRequest([]byte(`{"type":1}`), "1700000000"), -1)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	var envelope model.InteractionResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.Equal(model.ResponsePong, envelope.Type)
}

func (s *ControllerTestSuite) TestHandleInteraction_InvalidJSON() {
	resp, err := s.app.Test(s.signedRequest([]byte(`{`), "1700000000"), -1)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) TestHandleInteraction_NoRoute() {
	s.dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil, router.ErrNoRoute)

	resp, err := s.app.Test(s.signedRequest([]byte(`{"type":2,"data":{"name":"nope"}}`), "1700000000"), -1)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	s.Equal("unhandled interaction", string(raw))
}

func (s *ControllerTestSuite) TestHandleInteraction_UnhandledType() {
	s.dispatcher.On("Dispatch", mock.Anything, mock.Anything).
		Return(nil, &service.UnhandledTypeError{Type: model.InteractionModalSubmit})

	resp, err := s.app.Test(s.signedRequest([]byte(`{"type":5}`), "1700000000"), -1)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) TestHandleInteraction_NilResponseIsNoContent() {
	s.dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil, nil)

	resp, err := s.app.Test(s.signedRequest([]byte(`{"type":2,"data":{"name":"quiet"}}`), "1700000000"), -1)
	s.Require().NoError(err)
	s.Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *ControllerTestSuite) TestCreateActivity_Accepted() {
	req := model.ActivityRequest{
		ActivityID: "a1",
		TeamID:     "t1",
		UserID:     "u1",
		ChannelID:  "c1",
		Type:       "Run",
		StartDate:  1700000000,
	}
	activity := model.Activity{ActivityID: "a1", TeamID: "t1"}
	s.activityService.On("BuildActivity", req).Return(activity, nil)
	s.activityService.On("ProcessActivity", mock.Anything, activity).
		Return(model.ActivityResult{Status: "accepted"}, nil)

	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/api/activities", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(httpReq, -1)
	s.Require().NoError(err)
	s.Equal(http.StatusAccepted, resp.StatusCode)
}

func (s *ControllerTestSuite) TestCreateActivity_BuildError() {
	s.activityService.On("BuildActivity", mock.Anything).
		Return(model.Activity{}, model.NewUserError("team_id is required"))

	httpReq := httptest.NewRequest(http.MethodPost, "/api/activities", bytes.NewReader([]byte(`{"activity_id":"a1"}`)))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(httpReq, -1)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	s.Equal("team_id is required", string(raw))
}

func (s *ControllerTestSuite) TestCreateActivity_InvalidJSON() {
	httpReq := httptest.NewRequest(http.MethodPost, "/api/activities", bytes.NewReader([]byte(`{`)))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(httpReq, -1)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

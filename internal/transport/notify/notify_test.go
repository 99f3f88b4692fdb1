package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
)

type NotifyTestSuite struct {
	suite.Suite
	logger *logrus.Logger
	hook   *test.Hook
}

func TestNotifySuite(t *testing.T) {
	suite.Run(t, new(NotifyTestSuite))
}

func (s *NotifyTestSuite) SetupTest() {
	s.logger, s.hook = test.NewNullLogger()
}

func (s *NotifyTestSuite) TestWebhookDelivers() {
	var (
		mu       sync.Mutex
		received []domain.Event
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		s.NoError(err)

		var e domain.Event
		s.NoError(json.Unmarshal(body, &e))
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	wh := NewWebhook(server.URL, s.logger)
	wh.Notify(s.T().Context(), domain.Event{
		Type:      domain.EventDepositPaid,
		AccountID: 7,
		Reference: "DEP1",
		Amount:    decimal.NewFromInt(50),
	})
	wh.Notify(s.T().Context(), domain.Event{Type: domain.EventAccountSuspended, AccountID: 8})
	wh.Wait()

	s.Require().Len(received, 2)
	s.Empty(s.hook.AllEntries())
}

func (s *NotifyTestSuite) TestWebhookFailureIsLogged() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	wh := NewWebhook(server.URL, s.logger)
	wh.Notify(s.T().Context(), domain.Event{Type: domain.EventDealFunded, AccountID: 1})
	wh.Wait()

	s.Require().Len(s.hook.AllEntries(), 1)
	s.Equal(logrus.WarnLevel, s.hook.LastEntry().Level)
	s.Equal(domain.EventDealFunded, s.hook.LastEntry().Data["event"])
}

func (s *NotifyTestSuite) TestLogger() {
	n := NewLogger(s.logger)
	n.Notify(s.T().Context(), domain.Event{Type: domain.EventDisputeOpened, AccountID: 3, Message: "dispute"})

	s.Require().Len(s.hook.AllEntries(), 1)
	s.Equal("dispute", s.hook.LastEntry().Message)
	s.Equal(int64(3), s.hook.LastEntry().Data["accountID"])
}

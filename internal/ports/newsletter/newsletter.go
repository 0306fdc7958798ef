package newsletter

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

var ErrConfigInvalidFormURL = errors.New("invalid newsletter form url")
var ErrRespInvalidStatus = errors.New("unexpected response from newsletter provider")

// Service posts captured email addresses to the third-party
// newsletter subscription form. The call is form-encoded and fire-and-forget:
// no response schema is consumed beyond the status code
type Service struct {
	url    url.URL
	client *resty.Client
}

func New(address string) (Service, error) {
	if address == "" {
		return Service{}, ErrConfigInvalidFormURL
	}
	u, err := url.Parse(address)
	if err != nil {
		return Service{}, err
	}
	return Service{
		url:    *u,
		client: resty.New(),
	}, nil
}

func (s Service) Subscribe(email string) error {
	resp, err := s.client.R().
		SetHeader("Accept", "application/json").
		SetFormData(map[string]string{"email_address": email}).
		Post(s.url.String())
	if err != nil {
		return err
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return nil
	default:
		log.Debug().
			Int("status", resp.StatusCode()).
			Msg("Newsletter provider refused subscription")
		return ErrRespInvalidStatus
	}
}

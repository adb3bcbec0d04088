// Package install owns the "add to home screen" offer lifecycle. Instead
// of loose module-level handles, the pending offer is explicit state behind
// the capability set {Offer, Prompt, Dismiss}.
//
// A deferred install handle is a signed token whose nonce is redeemable
// exactly once: after one Prompt, replaying the same handle fails.
package install

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"attendance-capture/internal/config"
	"attendance-capture/internal/jwt"
)

type Outcome string

const (
	Accepted  Outcome = "accepted"
	Dismissed Outcome = "dismissed"
)

var (
	ErrNoPendingOffer = errors.New("no pending install offer")
	ErrInvalidOutcome = errors.New("invalid install outcome")
)

// Offer is one redeemable install handle.
type Offer struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Installer tracks the single pending offer and the installed flag.
// Single writer, single reader; not a contended resource.
type Installer struct {
	mu        sync.Mutex
	pending   *Offer
	installed bool

	logger *slog.Logger
}

func NewInstaller() *Installer {
	return &Installer{
		logger: slog.With("component", "install"),
	}
}

// NewOffer mints a fresh install handle and makes the install control
// available. A newer offer supersedes any pending one.
func (i *Installer) NewOffer() (*Offer, error) {
	offerID := uuid.NewString()

	claim := jwt.NewInstallOfferClaim(offerID)
	token, err := jwt.GenerateJWT(claim)
	if err != nil {
		return nil, fmt.Errorf("failed to mint install offer: %w", err)
	}

	offer := &Offer{
		ID:        offerID,
		Token:     token,
		ExpiresAt: claim.ExpiresAt.Time,
	}

	i.mu.Lock()
	i.pending = offer
	i.mu.Unlock()

	i.logger.Debug("Install offer minted", "offer_id", offerID)
	return offer, nil
}

// Prompt redeems a pending handle with the user's choice. The handle's
// nonce is consumed, so a handle prompts at most once.
func (i *Installer) Prompt(token string, choice Outcome) (Outcome, error) {
	if choice != Accepted && choice != Dismissed {
		return "", ErrInvalidOutcome
	}

	i.mu.Lock()
	pending := i.pending
	i.mu.Unlock()
	if pending == nil {
		return "", ErrNoPendingOffer
	}

	claims, err := jwt.DecodeInstallOfferJWT(token)
	if err != nil {
		return "", err
	}

	i.mu.Lock()
	i.pending = nil
	if choice == Accepted {
		i.installed = true
	}
	i.mu.Unlock()

	i.logger.Info("Install offer redeemed", "offer_id", claims.OfferID, "outcome", choice)
	return choice, nil
}

// Dismiss clears the pending offer without redeeming it. Fired on the
// platform's installed signal and when the user hides the control.
func (i *Installer) Dismiss() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pending = nil
}

// Available reports whether an install control should be shown.
func (i *Installer) Available() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending != nil && !i.installed
}

func (i *Installer) Installed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.installed
}

// QR renders the offer redemption URL as a QR image.
func (i *Installer) QR(url string) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Medium, config.QR_IMAGE_SIZE)
}

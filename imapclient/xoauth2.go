package imapclient

import (
	"github.com/emersion/go-sasl"
)

// XOAuth2 is the XOAUTH2 SASL mechanism name.
const XOAuth2 = "XOAUTH2"

type xoauth2Client struct {
	username string
	token    string
}

var _ sasl.Client = (*xoauth2Client)(nil)

func (a *xoauth2Client) Start() (mech string, ir []byte, err error) {
	mech = XOAuth2
	ir = []byte("user=" + a.username + "\x01auth=Bearer " + a.token + "\x01\x01")
	return
}

// Next acknowledges the error challenge sent by the server on failure. The
// server then completes the command with NO.
func (a *xoauth2Client) Next(challenge []byte) (response []byte, err error) {
	return []byte{}, nil
}

// NewXOAuth2Client returns a SASL client implementing the XOAUTH2 mechanism,
// as described in https://developers.google.com/gmail/imap/xoauth2-protocol.
func NewXOAuth2Client(username, token string) sasl.Client {
	return &xoauth2Client{username: username, token: token}
}

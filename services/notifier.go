package services

import (
	pubnub "github.com/pubnub/go"
)

// Publisher pushes realtime notifications to browser clients.
type Publisher interface {
	Publish(channel string, message map[string]any)
}

type pubnubPublisher struct {
	pn *pubnub.PubNub
}

// NewPubNubPublisher wraps a PubNub client. Publishes are fire-and-forget;
// a dropped notification only delays the client until its next poll.
func NewPubNubPublisher(pn *pubnub.PubNub) Publisher {
	return &pubnubPublisher{pn: pn}
}

func (p *pubnubPublisher) Publish(channel string, message map[string]any) {
	p.pn.Publish().
		Channel(channel).
		Message(message).
		Execute()
}

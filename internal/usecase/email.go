package usecase

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/skip2/go-qrcode"
)

type Email struct {
	To          []string
	From        string
	CC          []string
	BCC         []string
	Subject     string
	Body        string
	Attachments []EmailAttachment
}

type EmailAttachment struct {
	Name        string
	ContentType string
	Content     []byte
}

//go:embed templates/*
var templates embed.FS

type assetEventEmailData struct {
	Title       string
	Headline    string
	AssetID     string
	AssetName   string
	Actor       string
	OccurredAt  string
	CurrentYear string
	QRCodeURL   string
}

// BuildAssetEventEmail renders the notification email for one asset event.
// Ownership transfers carry a QR code of the asset id so the new owner can
// pull the record up from a phone.
func BuildAssetEventEmail(ev AssetEvent, sender string) (Email, error) {
	data := assetEventEmailData{
		AssetID:     ev.AssetID,
		AssetName:   ev.AssetName,
		Actor:       ev.Actor,
		OccurredAt:  ev.OccurredAt.Format("2006-01-02 03:04 PM"),
		CurrentYear: time.Now().Format("2006"),
	}

	switch ev.Type {
	case EventAssetUpdated:
		data.Title = "Digital Asset Updated"
		data.Headline = fmt.Sprintf("Your digital asset %q was updated by %s.", ev.AssetName, ev.Actor)
	case EventOwnershipChanged:
		data.Title = "Digital Asset Ownership Changed"
		data.Headline = fmt.Sprintf("Ownership of digital asset %q has been transferred.", ev.AssetName)
		png, _ := qrcode.Encode(ev.AssetID, qrcode.Low, 128)
		data.QRCodeURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	case EventModApproved:
		data.Title = "Modification Approved"
		data.Headline = fmt.Sprintf("The pending modification to %q was approved and is now live.", ev.AssetName)
	default:
		return Email{}, fmt.Errorf("no email template for event type %q", ev.Type)
	}

	tmpl, err := template.ParseFS(templates, "templates/asset_event.html")
	if err != nil {
		return Email{}, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Email{}, err
	}

	return Email{
		To:      ev.Recipients,
		From:    sender,
		Subject: data.Title,
		Body:    buf.String(),
	}, nil
}

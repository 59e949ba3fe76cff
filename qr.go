/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320 // mobile-friendly size

func botLink(botName string) string {
	return "https://t.me/" + botName
}

// serveQR renders a PNG QR code that opens a chat with the bot.
func serveQR(cfg *Config, botName string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if botName == "" {
			http.Error(w, "bot name unknown", http.StatusNotFound)
			return
		}

		png, err := qrcode.Encode(botLink(botName), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		_, _ = w.Write(png)
	}
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Seednode/partyrelay/relay"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

// relayLogf adapts logf to the relay package's logging hook.
func relayLogf(cfg *Config) func(format string, args ...any) {
	return func(format string, args ...any) {
		logf(cfg, format, args...)
	}
}

// wireError maps relay errors onto the messages clients display.
func wireError(err error) string {
	switch {
	case errors.Is(err, relay.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, relay.ErrNotInRoom):
		return "Not in a room"
	case errors.Is(err, relay.ErrPlayerNotFound):
		return "Player not found"
	case errors.Is(err, errBadRequest):
		return "Invalid request"
	}

	return err.Error()
}

var errBadRequest = errors.New("malformed request payload")

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}

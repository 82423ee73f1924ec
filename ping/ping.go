// Package ping provides a minimal built-in echo handler suitable for health
// checks and demos.
package ping

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// response is the JSON body produced by the ping handlers.
type response struct {
	Message        string `json:"message"`
	ServerTimeUnix int64  `json:"server_time_unix"`
}

// Handler returns a terminal handler that echoes the "message" parameter and
// attaches the current server time.
func Handler() flow.Handler {
	return func(ctx *flow.Context) error {
		return write(ctx, ctx.Param("message"))
	}
}

// funMessages is the pool of fun responses used by FunHandler.
var funMessages = []string{
	"Squirrel power!",
	"Nom nom nom acorns!",
	"Tail flick activated!",
	"Scurry mode engaged!",
	"Nuts about this request!",
}

// FunHandler returns a handler that occasionally (1 in 5 chance) replaces the
// echoed message with a fun response chosen from an internal list. When the
// random check does not trigger, the message parameter is echoed normally.
//
// src may be nil; in that case a time-seeded source is used.
func FunHandler(src rand.Source) flow.Handler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	rng := rand.New(src)
	return func(ctx *flow.Context) error {
		msg := ctx.Param("message")
		if rng.Intn(5) == 0 {
			msg = funMessages[rng.Intn(len(funMessages))]
		}
		return write(ctx, msg)
	}
}

func write(ctx *flow.Context, msg string) error {
	body, err := json.Marshal(response{
		Message:        msg,
		ServerTimeUnix: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	ctx.SetStatus(200)
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetBody(body)
	return nil
}

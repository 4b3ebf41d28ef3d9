package telegram

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const apiBase = "https://api.telegram.org/bot"

// Response carries the outcome of one Bot API call. Raw keeps the body
// (or the transport error) for the notification audit trail.
type Response struct {
	Success bool
	Raw     string
}

type Client struct {
	botToken string
	timeout  time.Duration
	log      *zap.Logger
}

func NewClient(botToken string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		botToken: botToken,
		timeout:  timeout,
		log:      log,
	}
}

// SendMessage posts a Markdown message to a chat. It never returns an
// error; delivery problems are reported through Response.
func (c *Client) SendMessage(chatID, text string) Response {
	if c.botToken == "" {
		c.log.Error("Telegram bot token is not configured")
		return Response{Success: false, Raw: "telegram bot token not configured"}
	}

	agent := fiber.Post(apiBase + c.botToken + "/sendMessage")
	agent.Timeout(c.timeout)
	agent.JSON(fiber.Map{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		c.log.Error("Telegram request failed",
			zap.String("chat_id", chatID),
			zap.Errors("errors", errs),
		)
		return Response{Success: false, Raw: errs[0].Error()}
	}

	if code != fiber.StatusOK {
		c.log.Error("Telegram API rejected the message",
			zap.String("chat_id", chatID),
			zap.Int("status_code", code),
			zap.ByteString("body", body),
		)
		return Response{Success: false, Raw: fmt.Sprintf("status %d: %s", code, body)}
	}

	return Response{Success: true, Raw: string(body)}
}

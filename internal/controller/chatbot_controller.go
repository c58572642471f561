package controller

import (
	"context"
	"errors"
	"strings"

	"escapadas-chatbot-be/internal/dto"
	"escapadas-chatbot-be/internal/pkg/serverutils"
	"escapadas-chatbot-be/internal/service"
	ws "escapadas-chatbot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const identityLocal = "client_identity"

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
	hub            *ws.Hub
}

func NewChatbotController(chatbotService service.IChatbotService, hub *ws.Hub) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
		hub:            hub,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)

	h := r.Group("/chat")
	h.Post("", c.SendChat)
	h.Use("/ws", c.upgrade)
	h.Get("/ws", websocket.New(c.serveSocket))
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.answer(ctx.UserContext(), identityOf(req.ClientIdentity, ctx.IP()), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatbotController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Service healthy", c.chatbotService.Health()))
}

func (c *chatbotController) answer(ctx context.Context, identity string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return c.chatbotService.SendChat(ctx, identity, req)
}

func (c *chatbotController) upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	ctx.Locals(identityLocal, identityOf(ctx.Query("client_identity"), ctx.IP()))
	return ctx.Next()
}

func (c *chatbotController) serveSocket(conn *websocket.Conn) {
	identity, _ := conn.Locals(identityLocal).(string)
	ws.ServeWs(c.hub, conn, identity, func(ctx context.Context, identity string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
		if req.ClientIdentity != "" {
			identity = req.ClientIdentity
		}
		res, err := c.answer(ctx, identity, req)
		if err != nil {
			return nil, errors.New(serverutils.PublicMessage(err))
		}
		return res, nil
	})
}

func identityOf(claimed, ip string) string {
	if id := strings.TrimSpace(claimed); id != "" {
		return id
	}
	return ip
}

package controller

import (
	"infoguru-be/internal/dto"
	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/serverutils"
	"infoguru-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Ask(ctx *fiber.Ctx) error
	CreateChat(ctx *fiber.Ctx) error
	ListChats(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	r.Post("/ask", authMiddleware, c.Ask)

	h := r.Group("/chats", authMiddleware)
	h.Post("", c.CreateChat)
	h.Get("/:user_id", c.ListChats)
	h.Get("/:user_id/:chat_id/messages", c.ListMessages)
}

// requireSelf rejects requests that name a user other than the token subject.
func requireSelf(ctx *fiber.Ctx, userId uuid.UUID) error {
	current, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if current != userId {
		return apperror.Unauthorized("You do not have permission to perform this action.")
	}
	return nil
}

func uuidParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("Invalid " + name)
	}
	return id, nil
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if err := requireSelf(ctx, req.UserId); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("ChatBot is successfully Responded", res))
}

func (c *chatController) CreateChat(ctx *fiber.Ctx) error {
	var req dto.CreateChatRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if err := requireSelf(ctx, req.UserId); err != nil {
		return err
	}

	res, err := c.service.CreateChat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return serverutils.Respond(ctx, fiber.StatusCreated, "Chat is successfully created", res)
}

func (c *chatController) ListChats(ctx *fiber.Ctx) error {
	userId, err := uuidParam(ctx, "user_id")
	if err != nil {
		return err
	}
	if err := requireSelf(ctx, userId); err != nil {
		return err
	}

	res, err := c.service.ListChatsForUser(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) ListMessages(ctx *fiber.Ctx) error {
	userId, err := uuidParam(ctx, "user_id")
	if err != nil {
		return err
	}
	chatId, err := uuidParam(ctx, "chat_id")
	if err != nil {
		return err
	}
	if err := requireSelf(ctx, userId); err != nil {
		return err
	}

	res, err := c.service.ListMessagesForChat(ctx.UserContext(), userId, chatId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

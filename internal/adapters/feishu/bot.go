package feishu

import (
	"bytes"
	"context"
	"fmt"

	"github.com/keepmind9/anybot/internal/logger"
	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcontact "github.com/larksuite/oapi-sdk-go/v3/service/contact/v3"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"github.com/sirupsen/logrus"
)

// API is the Feishu open platform surface the adapter needs
type API interface {
	CreateMessage(ctx context.Context, receiveIDType string, body *larkim.CreateMessageReqBody) (*larkim.CreateMessageResp, error)
	ReplyMessage(ctx context.Context, messageID string, body *larkim.ReplyMessageReqBody) (*larkim.ReplyMessageResp, error)
	CreateImage(ctx context.Context, req *larkim.CreateImageReq) (*larkim.CreateImageResp, error)
	CreateFile(ctx context.Context, req *larkim.CreateFileReq) (*larkim.CreateFileResp, error)
	GetChat(ctx context.Context, req *larkim.GetChatReq) (*larkim.GetChatResp, error)
	GetUser(ctx context.Context, req *larkcontact.GetUserReq) (*larkcontact.GetUserResp, error)
}

// ClientAPI serves API with a lark client
type ClientAPI struct {
	client *lark.Client
}

func NewClientAPI(client *lark.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (c *ClientAPI) CreateMessage(ctx context.Context, receiveIDType string, body *larkim.CreateMessageReqBody) (*larkim.CreateMessageResp, error) {
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(receiveIDType).
		Body(body).
		Build()
	return c.client.Im.Message.Create(ctx, req)
}

func (c *ClientAPI) ReplyMessage(ctx context.Context, messageID string, body *larkim.ReplyMessageReqBody) (*larkim.ReplyMessageResp, error) {
	req := larkim.NewReplyMessageReqBuilder().
		MessageId(messageID).
		Body(body).
		Build()
	return c.client.Im.Message.Reply(ctx, req)
}

func (c *ClientAPI) CreateImage(ctx context.Context, req *larkim.CreateImageReq) (*larkim.CreateImageResp, error) {
	return c.client.Im.Image.Create(ctx, req)
}

func (c *ClientAPI) CreateFile(ctx context.Context, req *larkim.CreateFileReq) (*larkim.CreateFileResp, error) {
	return c.client.Im.File.Create(ctx, req)
}

func (c *ClientAPI) GetChat(ctx context.Context, req *larkim.GetChatReq) (*larkim.GetChatResp, error) {
	return c.client.Im.Chat.Get(ctx, req)
}

func (c *ClientAPI) GetUser(ctx context.Context, req *larkcontact.GetUserReq) (*larkcontact.GetUserResp, error) {
	return c.client.Contact.User.Get(ctx, req)
}

// APIError is a non-zero code in a Feishu response
type APIError struct {
	Op   string
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feishu %s failed: code=%d, msg=%s", e.Op, e.Code, e.Msg)
}

// Bot is one Feishu app
type Bot struct {
	appID string
	api   API
}

func NewBot(appID string, api API) *Bot {
	return &Bot{appID: appID, api: api}
}

func (b *Bot) AppID() string { return b.appID }

// UploadImage uploads an image for use in messages and returns its key
func (b *Bot) UploadImage(ctx context.Context, data []byte) (string, error) {
	req := larkim.NewCreateImageReqBuilder().
		Body(larkim.NewCreateImageReqBodyBuilder().
			ImageType(larkim.ImageTypeMessage).
			Image(bytes.NewReader(data)).
			Build()).
		Build()
	resp, err := b.api.CreateImage(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to upload feishu image: %w", err)
	}
	if !resp.Success() {
		return "", &APIError{Op: "image upload", Code: resp.Code, Msg: resp.Msg}
	}
	return str(resp.Data.ImageKey), nil
}

// UploadAudio uploads an opus file and returns its key
func (b *Bot) UploadAudio(ctx context.Context, name string, data []byte) (string, error) {
	req := larkim.NewCreateFileReqBuilder().
		Body(larkim.NewCreateFileReqBodyBuilder().
			FileType(larkim.FileTypeOpus).
			FileName(name).
			File(bytes.NewReader(data)).
			Build()).
		Build()
	resp, err := b.api.CreateFile(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to upload feishu audio: %w", err)
	}
	if !resp.Success() {
		return "", &APIError{Op: "file upload", Code: resp.Code, Msg: resp.Msg}
	}
	return str(resp.Data.FileKey), nil
}

// Send posts out to chatID, or replies to replyTo when it is not empty
func (b *Bot) Send(ctx context.Context, chatID, replyTo string, out Outgoing) (string, error) {
	content, err := out.Content()
	if err != nil {
		return "", fmt.Errorf("failed to encode feishu message: %w", err)
	}

	var id *string
	if replyTo != "" {
		body := larkim.NewReplyMessageReqBodyBuilder().MsgType(out.MsgType).Content(content).Build()
		resp, err := b.api.ReplyMessage(ctx, replyTo, body)
		if err != nil {
			return "", fmt.Errorf("failed to reply to feishu message %s: %w", replyTo, err)
		}
		if !resp.Success() {
			return "", &APIError{Op: "reply", Code: resp.Code, Msg: resp.Msg}
		}
		id = resp.Data.MessageId
	} else {
		body := larkim.NewCreateMessageReqBodyBuilder().ReceiveId(chatID).MsgType(out.MsgType).Content(content).Build()
		resp, err := b.api.CreateMessage(ctx, larkim.ReceiveIdTypeChatId, body)
		if err != nil {
			return "", fmt.Errorf("failed to send message to chat %s: %w", chatID, err)
		}
		if !resp.Success() {
			return "", &APIError{Op: "send", Code: resp.Code, Msg: resp.Msg}
		}
		id = resp.Data.MessageId
	}

	logger.WithFields(logrus.Fields{
		"chat_id":  chatID,
		"msg_type": out.MsgType,
		"reply_to": replyTo,
	}).Debug("message-sent-to-feishu")
	return str(id), nil
}

// Chat fetches chat metadata
func (b *Bot) Chat(ctx context.Context, chatID string) (*larkim.GetChatRespData, error) {
	resp, err := b.api.GetChat(ctx, larkim.NewGetChatReqBuilder().ChatId(chatID).Build())
	if err != nil {
		return nil, fmt.Errorf("failed to get feishu chat: %w", err)
	}
	if !resp.Success() {
		return nil, &APIError{Op: "chat lookup", Code: resp.Code, Msg: resp.Msg}
	}
	return resp.Data, nil
}

// User fetches a user by open id
func (b *Bot) User(ctx context.Context, openID string) (*larkcontact.User, error) {
	req := larkcontact.NewGetUserReqBuilder().UserId(openID).UserIdType("open_id").Build()
	resp, err := b.api.GetUser(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get feishu user: %w", err)
	}
	if !resp.Success() {
		return nil, &APIError{Op: "user lookup", Code: resp.Code, Msg: resp.Msg}
	}
	if resp.Data == nil || resp.Data.User == nil {
		return &larkcontact.User{}, nil
	}
	return resp.Data.User, nil
}

package wa

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/mdp/qrterminal"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// IncomingMessage is a text message reduced to what the command router needs.
type IncomingMessage struct {
	Chat     types.JID
	SenderID string
	PushName string
	Text     string
}

// ReplyOptions make replies look less automated.
type ReplyOptions struct {
	DelayMinMs int // Minimum delay before reply (milliseconds)
	DelayMaxMs int // Maximum delay before reply (milliseconds), 0 = use min as fixed
	ShowTyping bool
}

type Service struct {
	client         *whatsmeow.Client
	dbBasePath     string
	logger         *zap.Logger
	reply          ReplyOptions
	groupID        string
	messageHandler func(ctx context.Context, msg IncomingMessage)
}

func NewService(dbBasePath, groupID string, reply ReplyOptions, logger *zap.Logger) *Service {
	return &Service{
		dbBasePath: dbBasePath,
		groupID:    groupID,
		reply:      reply,
		logger:     logger,
	}
}

func (s *Service) Initialize(ctx context.Context) error {
	// whatsmeow keeps its own connection; WAL sticks to the file once enabled.
	dbAddress := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", s.dbBasePath)
	waLogger := NewLogger(s.logger.Named("whatsmeow"))
	container, err := sqlstore.New(ctx, "sqlite", dbAddress, waLogger.Sub("Database"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	devices, err := container.GetAllDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	var device *store.Device
	if len(devices) > 0 {
		device = devices[0]
	} else {
		device = container.NewDevice()
	}

	s.client = whatsmeow.NewClient(device, waLogger.Sub("Client"))
	s.registerEventHandlers()

	return nil
}

func (s *Service) Connect() error {
	if s.client == nil {
		return fmt.Errorf("client not initialized")
	}
	if s.client.IsConnected() {
		return nil
	}
	return s.client.Connect()
}

func (s *Service) Disconnect() {
	if s.client != nil {
		s.client.Disconnect()
	}
}

func (s *Service) SetMessageHandler(handler func(ctx context.Context, msg IncomingMessage)) {
	s.messageHandler = handler
}

func (s *Service) registerEventHandlers() {
	s.client.AddEventHandler(func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Message:
			if s.messageHandler == nil {
				return
			}
			ctx := context.Background()
			msg, ok := s.toIncoming(ctx, v)
			if !ok {
				return
			}
			go s.messageHandler(ctx, msg)
		case *events.LoggedOut:
			s.logger.Warn("logged out from whatsapp", zap.Any("reason", v.Reason))
		}
	})
}

// toIncoming drops our own messages, non-text messages and, when a group is
// configured, messages from other chats.
func (s *Service) toIncoming(ctx context.Context, evt *events.Message) (IncomingMessage, bool) {
	if evt.Info.IsFromMe {
		return IncomingMessage{}, false
	}
	if s.groupID != "" && evt.Info.Chat.String() != s.groupID {
		return IncomingMessage{}, false
	}

	text := ""
	if evt.Message.GetConversation() != "" {
		text = evt.Message.GetConversation()
	} else if ext := evt.Message.GetExtendedTextMessage(); ext != nil {
		text = ext.GetText()
	}
	if text == "" {
		return IncomingMessage{}, false
	}

	return IncomingMessage{
		Chat:     evt.Info.Chat,
		SenderID: s.resolveSender(ctx, evt.Info.Sender),
		PushName: evt.Info.PushName,
		Text:     text,
	}, true
}

// resolveSender maps hidden-user (LID) senders to their phone number so a
// learner keeps one record regardless of how the message was addressed.
func (s *Service) resolveSender(ctx context.Context, sender types.JID) string {
	if sender.Server != types.HiddenUserServer {
		return sender.User
	}
	pn, err := s.client.Store.LIDs.GetPNForLID(ctx, sender)
	if err != nil || pn.IsEmpty() {
		s.logger.Debug("no phone number for lid", zap.String("lid", sender.User), zap.Error(err))
		return sender.User
	}
	return pn.User
}

// Reply sends text to chat after the configured delay.
func (s *Service) Reply(ctx context.Context, chat types.JID, text string) error {
	delayMs := replyDelay(s.reply, rand.Intn)
	if delayMs > 0 {
		if s.reply.ShowTyping {
			_ = s.client.SendChatPresence(ctx, chat, types.ChatPresenceComposing, types.ChatPresenceMediaText)
		}

		s.logger.Debug("delaying reply", zap.Int("delay_ms", delayMs))
		select {
		case <-time.After(time.Duration(delayMs) * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}

		if s.reply.ShowTyping {
			_ = s.client.SendChatPresence(ctx, chat, types.ChatPresencePaused, types.ChatPresenceMediaText)
		}
	}

	_, err := s.client.SendMessage(ctx, chat, &waE2E.Message{Conversation: &text})
	return err
}

// replyDelay picks a delay in [min, max], or min when max is not above it.
func replyDelay(opts ReplyOptions, intn func(int) int) int {
	if opts.DelayMaxMs > opts.DelayMinMs {
		return opts.DelayMinMs + intn(opts.DelayMaxMs-opts.DelayMinMs+1)
	}
	return opts.DelayMinMs
}

func (s *Service) IsLoggedIn() bool {
	return s.client.Store.ID != nil
}

func (s *Service) Pair(ctx context.Context, phone string) (string, error) {
	if s.IsLoggedIn() {
		return "", fmt.Errorf("already logged in")
	}
	if !s.client.IsConnected() {
		return "", fmt.Errorf("client not connected")
	}
	return s.client.PairPhone(ctx, phone, true, whatsmeow.PairClientChrome, "Chrome (Linux)")
}

// PrintQR connects and renders login codes until the QR channel closes.
func (s *Service) PrintQR(ctx context.Context) error {
	if s.IsLoggedIn() {
		return nil
	}
	qrChan, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("get qr channel: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("connect for qr: %w", err)
	}
	for evt := range qrChan {
		if evt.Event == "code" {
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
		} else {
			s.logger.Info("login event", zap.String("event", evt.Event))
		}
	}
	return nil
}

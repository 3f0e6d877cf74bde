package mail

import (
	"fmt"
	"log/slog"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// ListenerConfig carries the IMAP endpoint for the intake mailbox.
type ListenerConfig struct {
	Host     string
	Username string
	Password string
	Mailbox  string
}

// Message is one unseen mail pulled off the server. The UID is kept so the
// caller can acknowledge it after processing.
type Message struct {
	UID imap.UID
	Raw []byte
}

// Listener polls an IMAP mailbox for unseen messages. Seen flags are set by
// the caller via MarkSeen, not at fetch time, so a crash between fetch and
// notification re-delivers instead of losing mail.
type Listener struct {
	cfg    ListenerConfig
	client *imapclient.Client
	logger *slog.Logger
}

func NewListener(cfg ListenerConfig, logger *slog.Logger) *Listener {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{cfg: cfg, logger: logger}
}

func (l *Listener) connect() error {
	client, err := imapclient.DialTLS(l.cfg.Host, nil)
	if err != nil {
		return fmt.Errorf("dial imap %s: %w", l.cfg.Host, err)
	}
	if err := client.Login(l.cfg.Username, l.cfg.Password).Wait(); err != nil {
		_ = client.Close()
		return fmt.Errorf("imap login as %s: %w", l.cfg.Username, err)
	}
	if _, err := client.Select(l.cfg.Mailbox, nil).Wait(); err != nil {
		_ = client.Close()
		return fmt.Errorf("select %s: %w", l.cfg.Mailbox, err)
	}
	l.client = client
	l.logger.Info("mail.imap.connected", "host", l.cfg.Host, "mailbox", l.cfg.Mailbox)
	return nil
}

// ensureMailbox reselects the mailbox, reconnecting when the server has
// dropped the connection between polls.
func (l *Listener) ensureMailbox() error {
	if l.client == nil {
		return l.connect()
	}
	if _, err := l.client.Select(l.cfg.Mailbox, nil).Wait(); err != nil {
		l.logger.Warn("mail.imap.reselect_failed", "error", err)
		_ = l.client.Close()
		l.client = nil
		return l.connect()
	}
	return nil
}

// FetchUnseen returns every unseen message in the mailbox with its full
// RFC 822 body.
func (l *Listener) FetchUnseen() ([]Message, error) {
	if err := l.ensureMailbox(); err != nil {
		return nil, err
	}

	search, err := l.client.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("search unseen: %w", err)
	}
	uids := search.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	l.logger.Info("mail.imap.unseen", "count", len(uids))

	section := &imap.FetchItemBodySection{}
	fetch := l.client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	})
	defer fetch.Close()

	var messages []Message
	for {
		msg := fetch.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			l.logger.Warn("mail.imap.fetch_failed", "error", err)
			continue
		}
		raw := buf.FindBodySection(section)
		if len(raw) == 0 {
			l.logger.Warn("mail.imap.empty_body", "uid", buf.UID)
			continue
		}
		messages = append(messages, Message{UID: buf.UID, Raw: raw})
	}
	return messages, nil
}

// MarkSeen acknowledges one message so the next poll skips it.
func (l *Listener) MarkSeen(uid imap.UID) error {
	if l.client == nil {
		return fmt.Errorf("mark seen: not connected")
	}
	cmd := l.client.Store(imap.UIDSetNum(uid), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Flags:  []imap.Flag{imap.FlagSeen},
		Silent: true,
	}, nil)
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("mark %v seen: %w", uid, err)
	}
	l.logger.Debug("mail.imap.seen", "uid", uid)
	return nil
}

// Close logs out from the server.
func (l *Listener) Close() error {
	if l.client == nil {
		return nil
	}
	err := l.client.Logout().Wait()
	l.client = nil
	return err
}

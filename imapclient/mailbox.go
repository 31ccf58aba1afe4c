package imapclient

import (
	"github.com/directorytree/go-imapengine"
)

// Create sends a CREATE command.
func (c *Client) Create(mailbox string) error {
	_, err := c.Execute("CREATE", imap.MailboxArg(mailbox))
	return err
}

// Delete sends a DELETE command.
func (c *Client) Delete(mailbox string) error {
	_, err := c.Execute("DELETE", imap.MailboxArg(mailbox))
	return err
}

// Rename sends a RENAME command.
func (c *Client) Rename(mailbox, newName string) error {
	_, err := c.Execute("RENAME", imap.MailboxArg(mailbox), imap.MailboxArg(newName))
	return err
}

// Subscribe sends a SUBSCRIBE command.
func (c *Client) Subscribe(mailbox string) error {
	_, err := c.Execute("SUBSCRIBE", imap.MailboxArg(mailbox))
	return err
}

// Unsubscribe sends an UNSUBSCRIBE command.
func (c *Client) Unsubscribe(mailbox string) error {
	_, err := c.Execute("UNSUBSCRIBE", imap.MailboxArg(mailbox))
	return err
}

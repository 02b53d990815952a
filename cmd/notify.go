package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/khrees2412/careerpath/pkg/models"
)

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Direct messages between users",
}

var sendMessageCmd = &cobra.Command{
	Use:     "send <from> <to>",
	Short:   "Send a message",
	Args:    cobra.ExactArgs(2),
	Example: `  careerpath message send bob alice --subject "Welcome" --body "Glad to have you here"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		body, _ := cmd.Flags().GetString("body")
		if body == "" {
			return fmt.Errorf("--body is required")
		}

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		from, err := a.ResolveUser(ctx, args[0])
		if err != nil {
			return err
		}
		to, err := a.ResolveUser(ctx, args[1])
		if err != nil {
			return err
		}

		m := &models.Message{SenderID: &from.ID, ReceiverID: &to.ID, Subject: subject, Body: body}
		if err := a.Store.SendMessage(ctx, m); err != nil {
			return err
		}
		note := &models.Notification{UserID: to.ID, Kind: models.NotificationMessage, Title: "New message from " + from.Username}
		if err := a.Store.CreateNotification(ctx, note); err != nil {
			a.Log.Warn("failed to notify receiver", "receiver_id", to.ID, "error", err)
		}
		printSuccess("Message %d sent to %s", m.ID, to.Username)
		return nil
	},
}

var inboxCmd = &cobra.Command{
	Use:   "inbox <user>",
	Short: "List a user's messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unread, _ := cmd.Flags().GetBool("unread")
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		msgs, err := a.Store.Inbox(cmd.Context(), u.ID, unread)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(msgs))
		for _, m := range msgs {
			from := "(deleted user)"
			if m.SenderID != nil {
				from = fmt.Sprintf("user #%d", *m.SenderID)
				if sender, err := a.Store.GetUser(cmd.Context(), *m.SenderID); err == nil {
					from = sender.Username
				}
			}
			mark := ""
			if !m.IsRead {
				mark = "new"
			}
			rows = append(rows, []string{fmt.Sprint(m.ID), mark, from, m.Subject, m.SentAt.Format(time.DateTime)})
		}
		fmt.Println(titleStyle.Render("Inbox of " + u.Username))
		fmt.Println(renderTable([]string{"ID", "", "From", "Subject", "Sent"}, rows))
		return nil
	},
}

var readMessageCmd = &cobra.Command{
	Use:   "read <message-id>",
	Short: "Show a message and mark it read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "message")
		if err != nil {
			return err
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		m, err := a.Store.GetMessage(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := a.Store.MarkMessageRead(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(titleStyle.Render(m.Subject))
		fmt.Println(m.Body)
		return nil
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "User notifications",
}

var sendNotifyCmd = &cobra.Command{
	Use:   "send <user> <title>",
	Short: "Create a notification",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		body, _ := cmd.Flags().GetString("body")
		n := &models.Notification{Kind: models.NotificationKind(kind), Title: args[1], Body: body}
		if !n.Kind.Valid() {
			return fmt.Errorf("invalid kind %q: must be info, reminder, recommendation, message or system", kind)
		}

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		n.UserID = u.ID
		if err := a.Store.CreateNotification(cmd.Context(), n); err != nil {
			return err
		}
		printSuccess("Notification %d created for %s", n.ID, u.Username)
		return nil
	},
}

var listNotifyCmd = &cobra.Command{
	Use:   "list <user>",
	Short: "List a user's unread notifications",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		u, err := a.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		notes, err := a.Store.UnreadNotifications(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Println("No unread notifications.")
			return nil
		}

		rows := make([][]string, 0, len(notes))
		for _, n := range notes {
			rows = append(rows, []string{fmt.Sprint(n.ID), string(n.Kind), n.Title, n.Body, n.CreatedAt.Format(time.DateTime)})
		}
		fmt.Println(titleStyle.Render("Notifications for " + u.Username))
		fmt.Println(renderTable([]string{"ID", "Kind", "Title", "Body", "When"}, rows))
		return nil
	},
}

var readNotifyCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "notification")
		if err != nil {
			return err
		}
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Store.MarkNotificationRead(cmd.Context(), id); err != nil {
			return err
		}
		printSuccess("Notification %d read", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(notifyCmd)

	messageCmd.AddCommand(sendMessageCmd)
	messageCmd.AddCommand(inboxCmd)
	messageCmd.AddCommand(readMessageCmd)

	notifyCmd.AddCommand(sendNotifyCmd)
	notifyCmd.AddCommand(listNotifyCmd)
	notifyCmd.AddCommand(readNotifyCmd)

	sendMessageCmd.Flags().String("subject", "", "Message subject")
	sendMessageCmd.Flags().String("body", "", "Message body (required)")

	inboxCmd.Flags().Bool("unread", false, "Only list unread messages")

	sendNotifyCmd.Flags().String("kind", string(models.NotificationInfo), "Kind (info, reminder, recommendation, message, system)")
	sendNotifyCmd.Flags().String("body", "", "Notification body")
}

// Command deeplink is a terminal client for the DeepLink API, mostly useful
// for poking at a backend and for demoing the SDK against the bundled dev
// server (`deeplink serve`).
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/deeplink-app/deeplink-go/api"
	"github.com/deeplink-app/deeplink-go/config"
	"github.com/deeplink-app/deeplink-go/devserver"
	"github.com/deeplink-app/deeplink-go/prefs"
	"github.com/deeplink-app/deeplink-go/realtime"
	"github.com/deeplink-app/deeplink-go/store"
	"github.com/deeplink-app/deeplink-go/utils"
)

var (
	flagBaseURL string
	flagToken   string
)

func main() {
	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer func() { _ = utils.Logger.Sync() }()

	root := &cobra.Command{
		Use:           "deeplink",
		Short:         "DeepLink terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL (overrides config)")
	root.PersistentFlags().StringVar(&flagToken, "token", os.Getenv("DEEPLINK_TOKEN"), "bearer token")

	root.AddCommand(serveCmd(cfg), loginCmd(cfg), postsCmd(cfg), communitiesCmd(cfg),
		notificationsCmd(cfg), chatCmd(cfg), themeCmd(cfg))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newStore builds a client+store pair for one invocation, honoring the
// global flags.
func newStore(cfg config.AppConfig) (*store.Store, *api.Client) {
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	client := api.NewClient(cfg, utils.Logger)
	if flagToken != "" {
		client.SetToken(flagToken)
	}
	return store.New(client, utils.Logger), client
}

func serveCmd(cfg config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory development server",
		RunE: func(cmd *cobra.Command, args []string) error {
			utils.Sugar.Infof("seeded accounts: alice@deeplink.local / bob@deeplink.local (password %q)", devserver.SeedPassword)
			return devserver.New(cfg, utils.Logger).Run()
		},
	}
}

func loginCmd(cfg config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "login EMAIL PASSWORD",
		Short: "Log in and print a bearer token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, client := newStore(cfg)
			if err := s.Auth.Login(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("%s", s.Auth.Snapshot().Error)
			}
			fmt.Println(client.Token())
			return nil
		},
	}
}

func postsCmd(cfg config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{Use: "posts", Short: "Browse and create posts"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := newStore(cfg)
			if err := s.Posts.Fetch(context.Background()); err != nil {
				return fmt.Errorf("%s", s.Posts.Snapshot().Error)
			}
			for _, p := range s.Posts.Snapshot().Posts {
				fmt.Printf("%s  [%s] %s  (%d likes, %d comments) by %s\n",
					p.ID, p.Community.Name, p.Title, p.Likes, p.Comments, p.Author.Username)
			}
			return nil
		},
	})

	var title, content, community string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := newStore(cfg)
			in := api.CreatePostInput{Title: title, Content: content, CommunityID: community}
			if err := s.Posts.Create(context.Background(), in); err != nil {
				return fmt.Errorf("%s", s.Posts.Snapshot().Error)
			}
			fmt.Println("created", s.Posts.Snapshot().Current.ID)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "post title")
	create.Flags().StringVar(&content, "content", "", "post body")
	create.Flags().StringVar(&community, "community", "", "community id")
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("content")
	_ = create.MarkFlagRequired("community")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "like ID",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := newStore(cfg)
			if err := s.Posts.Like(context.Background(), args[0]); err != nil {
				return fmt.Errorf("%s", s.Posts.Snapshot().Error)
			}
			return nil
		},
	})
	return cmd
}

func communitiesCmd(cfg config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{Use: "communities", Short: "Browse and join communities"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List communities",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := newStore(cfg)
			if err := s.Communities.Fetch(context.Background()); err != nil {
				return fmt.Errorf("%s", s.Communities.Snapshot().Error)
			}
			for _, c := range s.Communities.Snapshot().Communities {
				joined := ""
				if c.IsJoined {
					joined = " (joined)"
				}
				fmt.Printf("%s  %s  %d members%s\n", c.ID, c.Name, c.MembersCount, joined)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "join ID",
		Short: "Join a community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := newStore(cfg)
			if err := s.Communities.Join(context.Background(), args[0]); err != nil {
				return fmt.Errorf("%s", s.Communities.Snapshot().Error)
			}
			return nil
		},
	})
	return cmd
}

func notificationsCmd(cfg config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{Use: "notifications", Short: "Read notifications"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := newStore(cfg)
			if err := s.Notifications.Fetch(context.Background()); err != nil {
				return fmt.Errorf("%s", s.Notifications.Snapshot().Error)
			}
			st := s.Notifications.Snapshot()
			fmt.Printf("%d unread\n", st.UnreadCount)
			for _, n := range st.Notifications {
				mark := " "
				if !n.IsRead {
					mark = "*"
				}
				fmt.Printf("%s %d [%s] %s\n", mark, n.ID, n.Type, n.Message)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := newStore(cfg)
			if err := s.Notifications.MarkAllRead(context.Background()); err != nil {
				return fmt.Errorf("%s", s.Notifications.Snapshot().Error)
			}
			return nil
		},
	})
	return cmd
}

func chatCmd(cfg config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{Use: "chat", Short: "Chat rooms"}

	cmd.AddCommand(&cobra.Command{
		Use:   "rooms",
		Short: "List chat rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := newStore(cfg)
			if err := s.Chat.FetchRooms(context.Background()); err != nil {
				return fmt.Errorf("%s", s.Chat.Snapshot().Error)
			}
			for _, r := range s.Chat.Snapshot().Rooms {
				name := r.Name
				if name == "" {
					name = "(direct)"
				}
				fmt.Printf("%d  %s  %d participants\n", r.ID, name, len(r.Participants))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "watch ROOM",
		Short: "Stream a room's messages to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid room id %q", args[0])
			}
			s, client := newStore(cfg)
			if err := s.Chat.FetchMessages(context.Background(), roomID); err != nil {
				return fmt.Errorf("%s", s.Chat.Snapshot().Error)
			}
			for _, m := range s.Chat.Snapshot().Messages {
				fmt.Printf("%s: %s\n", m.Sender.Username, m.Content)
			}

			var lastID int64
			if msgs := s.Chat.Snapshot().Messages; len(msgs) > 0 {
				lastID = msgs[len(msgs)-1].ID
			}
			unsub := s.Subscribe(func() {
				st := s.Chat.Snapshot()
				if len(st.Messages) == 0 {
					return
				}
				m := st.Messages[len(st.Messages)-1]
				if m.ID == lastID {
					return
				}
				lastID = m.ID
				fmt.Printf("%s: %s\n", m.Sender.Username, m.Content)
			})
			defer unsub()

			sock, err := realtime.Dial(context.Background(), cfg.WSBaseURL, roomID, client.Token(), s.Chat, utils.Logger)
			if err != nil {
				return err
			}
			defer sock.Close()
			<-sock.Done()
			return nil
		},
	})
	return cmd
}

func themeCmd(cfg config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or set the persisted UI theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := prefs.NewStore(cfg.PrefsPath)
			if len(args) == 0 {
				fmt.Println(p.Theme())
				return nil
			}
			switch args[0] {
			case "light":
				return p.SetTheme(prefs.ThemeLight)
			case "dark":
				return p.SetTheme(prefs.ThemeDark)
			default:
				return fmt.Errorf("unknown theme %q", args[0])
			}
		},
	}
}

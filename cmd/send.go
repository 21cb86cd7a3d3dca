package cmd

import (
	"fmt"
	"strings"

	"github.com/psds-microservice/citypeople-service/internal/location"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendFriends  []int
	sendGroups   []int
	sendLocation string
)

var sendCmd = &cobra.Command{
	Use:   "send <file.mp4>",
	Short: "Upload a recording to friends and groups; the file is deleted on success",
	Args:  cobra.ExactArgs(1),
	RunE:  runSend,
}

var loginCmd = &cobra.Command{
	Use:   "login <phone> <token>",
	Short: "Store the phone number and bearer token used for backend calls",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogin,
}

func init() {
	sendCmd.Flags().IntSliceVar(&sendFriends, "friends", nil, "recipient friend ids")
	sendCmd.Flags().IntSliceVar(&sendGroups, "groups", nil, "recipient group ids")
	sendCmd.Flags().StringVar(&sendLocation, "location", "", "locality (default: DEFAULT_LOCATION)")
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(loginCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	core, err := newCore()
	if err != nil {
		return err
	}
	defer core.Close()

	loc := location.NewProvider(core.Cfg.DefaultLocation)
	loc.Set(sendLocation)
	resp, err := core.Pipeline.Send(cmd.Context(), model.UploadJob{
		LocalFile:    args[0],
		RecipientIDs: sendFriends,
		GroupIDs:     sendGroups,
		Location:     loc.Current(),
	})
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	msg := resp.Text()
	if strings.TrimSpace(msg) == "" {
		msg = "uploaded"
	}
	fmt.Println(msg)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	core, err := newCore()
	if err != nil {
		return err
	}
	defer core.Close()

	if err := core.Tokens.Login(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	core.Log.Info("credential stored", zap.String("phone", strings.TrimSpace(args[0])))
	return nil
}

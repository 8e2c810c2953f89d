package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "friendbet",
	Short: "Social betting between friends",
	Long: `FriendBet runs the betting API: friends stake points on each other's
challenges, vote on submitted proof, and get paid out when a bet settles.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the shopping assistant from the terminal",
	Long: `An interactive session with the shopping assistant. Each reply is
checked for purchase intent; resolved product IDs are printed so the
flow can be inspected without the app. Type "exit" to quit.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	assistantSvc := newAssistantService(newCatalogService(store))

	fmt.Println("FrostMart assistant. Type 'exit' to quit, 'clear' to reset the conversation.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "clear":
			assistantSvc.Clear()
			fmt.Println("(conversation cleared)")
			continue
		}

		reply := assistantSvc.Send(ctx, line)
		fmt.Println(reply.Message.Text)
		if reply.Intent != nil && len(reply.Intent.ProductIDs) > 0 {
			fmt.Printf("(purchase intent: products %v)\n", reply.Intent.ProductIDs)
		}
	}
	return scanner.Err()
}

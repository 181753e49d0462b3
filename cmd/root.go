package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anatomymentor",
		Short: "Anatomy tutoring web app powered by generative models",
		Long: `AnatomyMentor helps medical students learn anatomy.

It explains a topic, generates multiple-choice practice questions and
describes uploaded images of anatomical structures, streaming each answer
into the page as it is shown.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

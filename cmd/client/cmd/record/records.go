package record

import (
	"fmt"

	"attendform/internal/app/client"
	"attendform/internal/domain/form"

	"github.com/spf13/cobra"
)

// RecordCmd - родительская команда для сохраненных записей форм
var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Сохраненные записи форм",
	Long:  `Просмотр записей, сохраненных после отправки формы.`,
}

var showCmd = &cobra.Command{
	Use:   "show <absence|change> <id>",
	Short: "Показать запись формы",
	Long: `Показывает запись так, как она сохранена в хранилище. Длинные data URI
(подпись, приложение) сокращаются; полный вид доступен с --json.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		v := form.Variant(args[0])
		if err := v.Validate(); err != nil {
			return err
		}

		rec, err := app.Record(cmd.Context(), v, args[1])
		if err != nil {
			return fmt.Errorf("ошибка получения записи: %w", err)
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return client.NewPrinter(cmd.OutOrStdout(), jsonOutput).Record(v, args[1], rec)
	},
}

func init() {
	RecordCmd.AddCommand(showCmd)
}

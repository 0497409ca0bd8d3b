package cmd

import (
	"fmt"
	"io"
	"os"

	"attendform/internal/app/client"
	"attendform/internal/domain/form"

	"github.com/spf13/cobra"
)

var signatureCmd = &cobra.Command{
	Use:   "signature",
	Short: "Работа с записями подписи",
	// хранилище не нужно, только логгер
	PersistentPreRunE: setupLogger,
}

func newRenderCmd() *cobra.Command {
	var variant, strokes, out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Нарисовать подпись из JSON-записи в PNG",
		Long: `Воспроизводит запись подписи на холсте выбранной формы так же, как
при заполнении, и сохраняет результат в PNG. Без --out изображение пишется
в stdout, без --strokes запись читается из stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in io.Reader = cmd.InOrStdin()
			if strokes != "" {
				f, err := os.Open(strokes)
				if err != nil {
					return fmt.Errorf("ошибка открытия подписи: %w", err)
				}
				defer f.Close()
				in = f
			}

			if out == "" {
				return client.RenderSignature(form.Variant(variant), in, cmd.OutOrStdout(), log)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("ошибка создания файла: %w", err)
			}
			if err := client.RenderSignature(form.Variant(variant), in, f, log); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&variant, "variant", string(form.VariantAbsence), "вид формы (absence, change)")
	cmd.Flags().StringVar(&strokes, "strokes", "", "JSON-запись подписи")
	cmd.Flags().StringVarP(&out, "out", "o", "", "файл PNG")
	return cmd
}

func init() {
	signatureCmd.AddCommand(newRenderCmd())
}

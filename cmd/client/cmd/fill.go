package cmd

import (
	"fmt"
	"strings"

	"attendform/internal/app/client"
	"attendform/internal/domain/category"
	"attendform/internal/domain/form"

	"github.com/spf13/cobra"
)

// fieldFlag связывает флаг командной строки с полем формы
type fieldFlag struct {
	flag  string
	field string
	usage string
}

var absenceFlags = []fieldFlag{
	{"location", form.FieldLocation, options("кампус", category.AbsenceCampus)},
	{"class", form.FieldClassNumber, "номер класса"},
	{"name", form.FieldName, "имя"},
	{"birth", form.FieldBirthDate, "дата рождения, YYMMDD"},
	{"date", form.FieldAbsenceDate, "дата отсутствия, YYYY-MM-DD"},
	{"absent-category", form.FieldAbsentCategory, options("вид отсутствия", category.AbsentCategory)},
	{"category", form.FieldCategory, options("время отсутствия", category.AbsentTime)},
	{"reason", form.FieldReason, "причина"},
	{"details", form.FieldDetails, "подробности"},
	{"place", form.FieldPlace, "место"},
}

var changeFlags = []fieldFlag{
	{"location", form.FieldLocation, options("кампус", category.ChangeCampus)},
	{"class", form.FieldClassNumber, "номер класса"},
	{"name", form.FieldName, "имя"},
	{"campus", form.FieldCampus, "кампус в записи"},
	{"birth", form.FieldBirthDate, "дата рождения, YYMMDD"},
	{"reason", form.FieldChangeCode, options("вид изменения, название или код", category.ChangeReason)},
	{"attendance-date", form.FieldAttendanceDate, "дата отметки, YYYY-MM-DD"},
	{"attendance-time", form.FieldAttendanceTime, "время отметки, HH:MM"},
	{"change-date", form.FieldChangeDate, "дата изменения, YYYY-MM-DD"},
	{"change-time", form.FieldChangeTime, "время изменения, HH:MM"},
	{"change-reason", form.FieldChangeReason, "причина изменения"},
}

func options(usage string, t *category.Table) string {
	return fmt.Sprintf("%s (%s)", usage, strings.Join(t.Labels(), ", "))
}

var (
	absenceCmd = &cobra.Command{
		Use:   "absence",
		Short: "Форма отсутствия",
	}
	changeCmd = &cobra.Command{
		Use:   "change",
		Short: "Форма изменения отметки посещаемости",
	}
)

// newFillCmd собирает команду fill; в форму попадают только явно заданные флаги
func newFillCmd(v form.Variant, flags []fieldFlag) *cobra.Command {
	values := make(map[string]*string, len(flags))
	var id, strokes, document string

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Заполнить и отправить форму",
		Long: `Открывает форму по --id (или новую), восстанавливает сохраненную запись,
применяет заданные поля, приложение и подпись, затем сохраняет запись.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			req := client.FillRequest{
				Variant:  v,
				ID:       id,
				Fields:   make(map[string]string),
				Document: document,
				Strokes:  strokes,
			}
			for _, f := range flags {
				if cmd.Flags().Changed(f.flag) {
					req.Fields[f.field] = *values[f.flag]
				}
			}

			sub, err := a.Fill(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printer(cmd).Submission(sub)
		},
	}

	for _, f := range flags {
		values[f.flag] = cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().StringVar(&id, "id", "", "идентификатор формы; пустой - новая форма")
	cmd.Flags().StringVar(&strokes, "strokes", "", "JSON-запись подписи")
	if v == form.VariantAbsence {
		cmd.Flags().StringVar(&document, "document", "", "файл подтверждающего документа")
	}
	return cmd
}

func init() {
	absenceCmd.AddCommand(newFillCmd(form.VariantAbsence, absenceFlags))
	changeCmd.AddCommand(newFillCmd(form.VariantChange, changeFlags))
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/interview-list/internal/models"
)

func validInput() models.InterviewInput {
	return models.InterviewInput{
		CompanyName: "Acme",
		VacancyLink: "https://acme.example/jobs/42",
		HRName:      "Jane Doe",
		Status:      models.InterviewStatusPending,
	}
}

func intPtr(i int) *int { return &i }

func TestValidateInterviewInput_Valid(t *testing.T) {
	assert.NoError(t, ValidateInterviewInput(validInput()))
}

func TestValidateInterviewInput_SalaryRangeNotOrdered(t *testing.T) {
	in := validInput()
	in.SalaryFrom = intPtr(5000)
	in.SalaryTo = intPtr(1000)

	assert.NoError(t, ValidateInterviewInput(in), "min > max is accepted")
}

func TestValidateInterviewInput_Errors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *models.InterviewInput)
		wantField string
	}{
		{name: "missing company", mutate: func(in *models.InterviewInput) { in.CompanyName = "" }, wantField: "companyName"},
		{name: "missing hr name", mutate: func(in *models.InterviewInput) { in.HRName = "" }, wantField: "hrName"},
		{name: "bad link", mutate: func(in *models.InterviewInput) { in.VacancyLink = "not a link" }, wantField: "vacancyLink"},
		{name: "negative salary", mutate: func(in *models.InterviewInput) { in.SalaryFrom = intPtr(-1) }, wantField: "salaryFrom"},
		{name: "unknown status", mutate: func(in *models.InterviewInput) { in.Status = "hired" }, wantField: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := ValidateInterviewInput(in)
			require.Error(t, err)

			var fe *FormError
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe.Fields, tt.wantField)
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}

func TestValidateInterviewInput_RequiredMessage(t *testing.T) {
	in := validInput()
	in.CompanyName = ""

	var fe *FormError
	require.ErrorAs(t, ValidateInterviewInput(in), &fe)
	assert.Equal(t, ErrRequiredField, fe.Fields["companyName"])
}

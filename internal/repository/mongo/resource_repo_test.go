package mongo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateKeyField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "default index name",
			err:  errors.New(`write exception: write errors: [E11000 duplicate key error collection: foodie_api.users index: email_1 dup key: { email: "test@test.com" }]`),
			want: "email",
		},
		{
			name: "descending index",
			err:  errors.New(`E11000 duplicate key error collection: foodie_api.categories index: name_-1 dup key: { name: "Dinner" }`),
			want: "name",
		},
		{
			name: "no index in message",
			err:  errors.New("some other failure"),
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, duplicateKeyField(tt.err))
		})
	}
}

package cmd

import (
	"reflect"
	"testing"

	"github.com/stokerbuild/stoker/pkg/pipeline"
)

func TestParseInvocations(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want []pipeline.Invocation
	}{
		{
			"single task",
			[]string{"clean"},
			[]pipeline.Invocation{{Name: "clean"}},
		},
		{
			"task with arguments",
			[]string{"rebuild", "out/stoker"},
			[]pipeline.Invocation{{Name: "rebuild", Args: []string{"out/stoker"}}},
		},
		{
			"comma separated",
			[]string{"clean", ",", "rebuild", "out/stoker"},
			[]pipeline.Invocation{
				{Name: "clean"},
				{Name: "rebuild", Args: []string{"out/stoker"}},
			},
		},
		{
			"trailing comma",
			[]string{"clean,", "delegate", "install"},
			[]pipeline.Invocation{
				{Name: "clean"},
				{Name: "delegate", Args: []string{"install"}},
			},
		},
		{
			"empty",
			nil,
			[]pipeline.Invocation{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseInvocations(tc.args)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

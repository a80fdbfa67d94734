package vcrfixture_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seborama/vcrfixture"
	"github.com/seborama/vcrfixture/vcr"
)

func TestNode_ClosestMarker(t *testing.T) {
	moduleMarker := vcrfixture.Mark(vcr.WithRecordMode(vcr.RecordModeNone))
	groupMarker := vcrfixture.Mark(vcr.WithRecordMode(vcr.RecordModeAll))
	testMarker := vcrfixture.Mark(vcr.WithRecordMode(vcr.RecordModeOnce))
	other := vcrfixture.NewMarker("slow")

	module := &vcrfixture.Node{Name: "m", Kind: vcrfixture.KindModule, Markers: []vcrfixture.Marker{moduleMarker}}
	group := &vcrfixture.Node{Name: "TestFoo", Kind: vcrfixture.KindGroup, Parent: module}
	inner := &vcrfixture.Node{Name: "Inner", Kind: vcrfixture.KindGroup, Parent: group, Markers: []vcrfixture.Marker{groupMarker}}

	tt := []*struct {
		name string
		node *vcrfixture.Node
		want vcrfixture.Marker
	}{
		{name: "own marker", node: &vcrfixture.Node{Kind: vcrfixture.KindTest, Parent: inner, Markers: []vcrfixture.Marker{other, testMarker}}, want: testMarker},
		{name: "group marker", node: &vcrfixture.Node{Kind: vcrfixture.KindTest, Parent: inner, Markers: []vcrfixture.Marker{other}}, want: groupMarker},
		{name: "module marker", node: &vcrfixture.Node{Kind: vcrfixture.KindTest, Parent: group}, want: moduleMarker},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.node.ClosestMarker(vcrfixture.MarkerName)
			require.True(t, ok)
			assert.Equal(t, len(tc.want.Settings), len(got.Settings))

			cfg, err := vcr.NewConfig(got.Settings...)
			require.NoError(t, err)
			wantCfg, err := vcr.NewConfig(tc.want.Settings...)
			require.NoError(t, err)
			assert.Equal(t, wantCfg.RecordMode, cfg.RecordMode)
		})
	}

	_, ok := (&vcrfixture.Node{Kind: vcrfixture.KindTest}).ClosestMarker(vcrfixture.MarkerName)
	assert.False(t, ok)

	testNode := &vcrfixture.Node{Kind: vcrfixture.KindTest, Parent: inner}
	assert.Same(t, module, testNode.Module())
	assert.Same(t, inner, testNode.Group())
	assert.Nil(t, module.Group())
	assert.Equal(t, "group", vcrfixture.KindGroup.String())
}

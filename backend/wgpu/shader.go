package wgpu

import (
	"fmt"

	"github.com/gogpu/daub"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// passUniformSize is the byte size of the pass uniform block:
// resolution, drag_start, drag_end, pivot (vec2<f32> each) plus
// is_dragging and drag_length (f32 each).
const passUniformSize = 32

// BuildPassModules creates one hal shader module per pass of a tool from
// the SPIR-V compiled at tool construction. On failure, modules created
// so far are destroyed and the error is returned.
func BuildPassModules(device hal.Device, tool *daub.Tool) ([]hal.ShaderModule, error) {
	passes := tool.Passes()
	modules := make([]hal.ShaderModule, 0, len(passes))
	for _, pass := range passes {
		m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label: pass.Name(),
			Source: hal.ShaderSource{
				SPIRV: pass.SPIRV(),
			},
		})
		if err != nil {
			DestroyPassModules(device, modules)
			return nil, fmt.Errorf("wgpu: shader module for pass %q: %w", pass.Name(), err)
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// DestroyPassModules releases shader modules created by BuildPassModules.
func DestroyPassModules(device hal.Device, modules []hal.ShaderModule) {
	for _, m := range modules {
		if m != nil {
			device.DestroyShaderModule(m)
		}
	}
}

// NewPassBindGroupLayout creates the bind group layout every pass
// pipeline shares:
//
//	Binding 0: pass uniforms (uniform buffer, vertex+fragment)
//	Binding 1: source texture (texture_2d, fragment)
//	Binding 2: sampler (fragment)
func NewPassBindGroupLayout(device hal.Device) (hal.BindGroupLayout, error) {
	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "daub_pass_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: passUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler: &gputypes.SamplerBindingLayout{
					Type: gputypes.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pass bind group layout: %w", err)
	}
	return layout, nil
}

// NewPassPipelineLayout creates a pipeline layout over the shared pass
// bind group layout.
func NewPassPipelineLayout(device hal.Device, bindLayout hal.BindGroupLayout) (hal.PipelineLayout, error) {
	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "daub_pass_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pass pipeline layout: %w", err)
	}
	return layout, nil
}

// PassResources bundles the GPU objects for one tool's pass chain and
// destroys them in the correct order.
type PassResources struct {
	Device     hal.Device
	Modules    []hal.ShaderModule
	BindLayout hal.BindGroupLayout
	PipeLayout hal.PipelineLayout
}

// NewPassResources compiles a tool's passes into shader modules and
// creates the shared layouts.
func NewPassResources(device hal.Device, tool *daub.Tool) (*PassResources, error) {
	modules, err := BuildPassModules(device, tool)
	if err != nil {
		return nil, err
	}
	r := &PassResources{Device: device, Modules: modules}

	r.BindLayout, err = NewPassBindGroupLayout(device)
	if err != nil {
		r.Destroy()
		return nil, err
	}
	r.PipeLayout, err = NewPassPipelineLayout(device, r.BindLayout)
	if err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

// Destroy releases all resources. Safe to call on partially constructed
// bundles.
func (r *PassResources) Destroy() {
	if r.Device == nil {
		return
	}
	if r.PipeLayout != nil {
		r.Device.DestroyPipelineLayout(r.PipeLayout)
		r.PipeLayout = nil
	}
	if r.BindLayout != nil {
		r.Device.DestroyBindGroupLayout(r.BindLayout)
		r.BindLayout = nil
	}
	DestroyPassModules(r.Device, r.Modules)
	r.Modules = nil
}

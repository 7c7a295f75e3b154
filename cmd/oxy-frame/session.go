package main

import (
	"math"

	"github.com/Carmen-Shannon/oxy-frame/assets"
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/config"
	"github.com/Carmen-Shannon/oxy-frame/engine"
	"github.com/Carmen-Shannon/oxy-frame/engine/camera"
	"github.com/Carmen-Shannon/oxy-frame/engine/loader"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/wgpu_backend"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/Carmen-Shannon/oxy-frame/engine/window/glfw_window"
	"github.com/pkg/errors"
)

// headlessDefaultFrames bounds a headless run that did not ask for a frame count.
const headlessDefaultFrames = 120

// newSession wires the window, backend, loader, camera and renderer described by cfg into an engine.
// The returned cleanup closes the mesh loader and must run after the engine returns.
func newSession(cfg config.Config) (engine.Engine, func(), error) {
	backendType, err := cfg.BackendType()
	if err != nil {
		return nil, nil, err
	}
	pacing, err := cfg.PacingPolicy()
	if err != nil {
		return nil, nil, err
	}
	presentMode, err := cfg.PresentMode()
	if err != nil {
		return nil, nil, err
	}
	fill, err := cfg.FillMode()
	if err != nil {
		return nil, nil, err
	}

	windowOptions := []window.WindowBuilderOption{
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithResizable(cfg.Window.Resizable),
	}

	var (
		win     window.Window
		backend renderer.RendererBackend
	)
	switch backendType {
	case renderer.BackendTypeHeadless:
		windowOptions = append(windowOptions, window.WithFrames(common.Coalesce(cfg.Engine.Frames, headlessDefaultFrames)))
		win = window.NewHeadlessWindow(windowOptions...)
		backend = renderer.NewHeadlessBackend(renderer.WithHeadlessSize(uint32(cfg.Window.Width), uint32(cfg.Window.Height)))
	case renderer.BackendTypeWGPU:
		windowOptions = append(windowOptions, window.WithFrames(cfg.Engine.Frames))
		gw, err := glfw_window.NewWindow(windowOptions...)
		if err != nil {
			return nil, nil, err
		}
		b, err := wgpu_backend.NewBackend(gw.SurfaceDescriptor(), gw.Width(), gw.Height(), wgpu_backend.WithPresentMode(presentMode))
		if err != nil {
			_ = gw.Close()
			return nil, nil, err
		}
		win, backend = gw, b
	default:
		return nil, nil, errors.Errorf("unsupported backend %s", backendType)
	}

	loaderOptions := []loader.LoaderBuilderOption{loader.WithWorkers(cfg.Assets.Workers)}
	meshPath := cfg.Assets.Mesh
	if meshPath == "" {
		loaderOptions = append(loaderOptions, loader.WithFS(assets.Meshes))
		meshPath = assets.CornellBoxPath
	}
	meshes := loader.NewLoader(loader.BackendTypeOBJ, loaderOptions...)

	cam := camera.NewCamera(
		camera.WithFov(cfg.Camera.FovDeg*math.Pi/180),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
		camera.WithController(camera.NewCameraController(
			camera.WithPosition(cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]),
			camera.WithAngle(cfg.Camera.Angle),
			camera.WithMoveSpeed(cfg.Camera.MoveSpeed),
			camera.WithTurnSpeed(cfg.Camera.TurnSpeed),
		)),
	)

	r := renderer.NewRenderer(backend,
		renderer.WithPacing(pacing),
		renderer.WithFenceTimeout(cfg.Render.FenceTimeout.Duration()),
		renderer.WithClearColor(common.RGBA(cfg.Render.ClearColor)),
		renderer.WithPipelineOptions(pipeline.WithFillMode(fill)),
		renderer.WithMesh(meshes, meshPath),
		renderer.WithCamera(cam),
	)

	common.Logger().Info("session configured",
		"backend", backendType.String(),
		"pacing", pacing.String(),
		"mesh", meshPath,
		"frames", cfg.Engine.Frames,
	)

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithProfiling(cfg.Engine.Profile),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
	)
	return e, meshes.Close, nil
}

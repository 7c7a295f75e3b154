package loader

import (
	"bufio"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/g3n/engine/loader/obj"
	"github.com/pkg/errors"
)

// objLoaderBackend decodes Wavefront OBJ files with their MTL material libraries.
// Objects are expanded into coloured triangle lists on a worker pool and concatenated in file order.
type objLoaderBackend struct {
	pool worker.DynamicWorkerPool
}

var _ loaderBackend = &objLoaderBackend{}

// objUnassignedMaterial is the name the decoder gives faces declared before any usemtl.
const objUnassignedMaterial = "internal default"

// objResult is the expansion of one OBJ object.
type objResult struct {
	vertices []common.ColorVertex
	err      error
}

func newOBJLoaderBackend(workers int) *objLoaderBackend {
	return &objLoaderBackend{
		pool: worker.NewDynamicWorkerPool(workers, 64, 1*time.Second),
	}
}

func (b *objLoaderBackend) Load(fsys fs.FS, p string) (*Mesh, error) {
	objData, err := readFile(fsys, p)
	if err != nil {
		return nil, errors.Wrapf(err, "read mesh %s", p)
	}

	var mtlReader io.Reader
	if lib := materialLibrary(objData); lib != "" {
		mtlPath := joinPath(fsys, p, lib)
		mtlData, err := readFile(fsys, mtlPath)
		if err != nil {
			common.Logger().Warn("material library unavailable", "mesh", p, "library", mtlPath, "error", err)
		} else {
			mtlReader = bytes.NewReader(mtlData)
		}
	}

	return b.LoadReader(p, bytes.NewReader(objData), mtlReader)
}

func (b *objLoaderBackend) LoadReader(name string, r, companion io.Reader) (*Mesh, error) {
	var mtlData []byte
	if companion != nil {
		var err error
		if mtlData, err = io.ReadAll(companion); err != nil {
			return nil, errors.Wrapf(err, "read material library for %s", name)
		}
	}
	defined := definedMaterials(mtlData)

	dec, err := obj.DecodeReader(r, bytes.NewReader(mtlData))
	if err != nil {
		return nil, errors.Wrapf(err, "decode mesh %s", name)
	}
	for _, w := range dec.Warnings {
		common.Logger().Warn("mesh decoder warning", "mesh", name, "warning", w)
	}

	// A WaitGroup is the barrier; pool.Wait() would block until the workers idle out.
	results := make([]objResult, len(dec.Objects))
	var wg sync.WaitGroup
	for i := range dec.Objects {
		wg.Add(1)
		idx := i
		b.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				verts, err := expandObject(name, dec, &dec.Objects[idx], defined)
				results[idx] = objResult{vertices: verts, err: err}
				return nil, err
			},
		})
	}
	wg.Wait()

	mesh := &Mesh{Name: name, Warnings: dec.Warnings}
	for i, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if len(res.vertices) == 0 {
			continue
		}
		mesh.Shapes = append(mesh.Shapes, Shape{
			Name:  dec.Objects[i].Name,
			First: uint32(len(mesh.Vertices)),
			Count: uint32(len(res.vertices)),
		})
		mesh.Vertices = append(mesh.Vertices, res.vertices...)
	}
	if len(mesh.Vertices) == 0 {
		return nil, errors.Wrapf(ErrNoGeometry, "mesh %s", name)
	}
	return mesh, nil
}

func (b *objLoaderBackend) Close() {
	b.pool.Stop()
}

// expandObject triangulates every face of o as a fan and colours each vertex with the face material's diffuse colour.
func expandObject(name string, dec *obj.Decoder, o *obj.Object, defined map[string]bool) ([]common.ColorVertex, error) {
	verts := make([]common.ColorVertex, 0, len(o.Faces)*3)
	for fi := range o.Faces {
		face := &o.Faces[fi]
		if face.Material == "" || face.Material == objUnassignedMaterial {
			return nil, &MalformedAssetError{Path: name, Object: o.Name, Face: fi, Reason: "no material assigned"}
		}
		mat := dec.Materials[face.Material]
		if !defined[face.Material] || mat == nil {
			return nil, &MalformedAssetError{Path: name, Object: o.Name, Face: fi, Material: face.Material, Reason: "unknown material"}
		}
		if len(face.Vertices) < 3 {
			return nil, &MalformedAssetError{Path: name, Object: o.Name, Face: fi, Reason: "face has fewer than 3 vertices"}
		}

		color := [4]float32{mat.Diffuse.R, mat.Diffuse.G, mat.Diffuse.B, 1}

		corner := func(i int) (common.ColorVertex, error) {
			vi := face.Vertices[i]
			if vi < 0 || (vi+1)*3 > len(dec.Vertices) {
				return common.ColorVertex{}, &MalformedAssetError{Path: name, Object: o.Name, Face: fi, Reason: "vertex index out of range"}
			}
			return common.ColorVertex{
				Position: [3]float32{dec.Vertices[vi*3], dec.Vertices[vi*3+1], dec.Vertices[vi*3+2]},
				Color:    color,
			}, nil
		}

		for i := 2; i < len(face.Vertices); i++ {
			for _, c := range [3]int{0, i - 1, i} {
				v, err := corner(c)
				if err != nil {
					return nil, err
				}
				verts = append(verts, v)
			}
		}
	}
	return verts, nil
}

// definedMaterials returns the names declared with newmtl in an MTL library.
func definedMaterials(mtl []byte) map[string]bool {
	names := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(mtl))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 2 && fields[0] == "newmtl" {
			names[fields[1]] = true
		}
	}
	return names
}

// materialLibrary returns the first mtllib reference of an OBJ file, or "".
func materialLibrary(objData []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(objData))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 2 && fields[0] == "mtllib" {
			return fields[1]
		}
	}
	return ""
}

func readFile(fsys fs.FS, p string) ([]byte, error) {
	if fsys != nil {
		return fs.ReadFile(fsys, p)
	}
	return os.ReadFile(p)
}

// joinPath resolves a companion file relative to the mesh, using slash paths inside an fs.FS.
func joinPath(fsys fs.FS, meshPath, rel string) string {
	if fsys != nil {
		return path.Join(path.Dir(meshPath), rel)
	}
	return filepath.Join(filepath.Dir(meshPath), rel)
}

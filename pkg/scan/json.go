package scan

import (
	"encoding/json"

	"github.com/matzehuels/pkgsizer/pkg/subpkg"
)

// SchemaVersion tags the JSON report layout.
const SchemaVersion = "1.0"

type jsonReport struct {
	Version      string        `json:"version"`
	ScanID       string        `json:"scan_id"`
	SitePackages string        `json:"site_packages"`
	TotalBytes   int64         `json:"total_size_bytes"`
	TotalFiles   int           `json:"total_files"`
	PackageCount int           `json:"package_count"`
	Packages     []jsonPackage `json:"packages"`
}

type jsonPackage struct {
	Name             string           `json:"name"`
	Version          string           `json:"version"`
	SizeBytes        int64            `json:"size_bytes"`
	FileCount        int              `json:"file_count"`
	Depth            int              `json:"depth"`
	Direct           bool             `json:"direct"`
	Editable         bool             `json:"editable"`
	Location         string           `json:"location"`
	EditableLocation string           `json:"editable_location,omitempty"`
	Subpackages      []jsonSubpackage `json:"subpackages,omitempty"`
}

type jsonSubpackage struct {
	Name          string           `json:"name"`
	QualifiedName string           `json:"qualified_name"`
	Path          string           `json:"path"`
	Depth         int              `json:"depth"`
	IsPackage     bool             `json:"is_package"`
	SizeBytes     int64            `json:"size_bytes"`
	FileCount     int              `json:"file_count"`
	Children      []jsonSubpackage `json:"children,omitempty"`
}

// ToJSON serializes the results to the versioned report schema.
func (r *Results) ToJSON() ([]byte, error) {
	report := jsonReport{
		Version:      SchemaVersion,
		ScanID:       r.ID,
		SitePackages: r.Root,
		TotalBytes:   r.TotalBytes,
		TotalFiles:   r.TotalFiles,
		PackageCount: len(r.Packages),
		Packages:     make([]jsonPackage, 0, len(r.Packages)),
	}

	for _, p := range r.Packages {
		pkg := jsonPackage{
			Name:      p.Dist.Name,
			Version:   p.Dist.Version,
			SizeBytes: p.Size.Bytes,
			FileCount: p.Size.Files,
			Depth:     p.Node.Depth,
			Direct:    p.Node.Direct,
			Editable:  p.Dist.Editable,
			Location:  p.Dist.Location,
		}
		if p.Dist.Editable {
			pkg.EditableLocation = p.Dist.EditableLocation
		}
		for _, sp := range p.Subpackages {
			pkg.Subpackages = append(pkg.Subpackages, subpackageJSON(sp))
		}
		report.Packages = append(report.Packages, pkg)
	}

	return json.MarshalIndent(report, "", "  ")
}

func subpackageJSON(info *subpkg.Info) jsonSubpackage {
	out := jsonSubpackage{
		Name:          info.Name,
		QualifiedName: info.QualifiedName,
		Path:          info.Path,
		Depth:         info.Depth,
		IsPackage:     info.IsPackage,
		SizeBytes:     info.Size.Bytes,
		FileCount:     info.Size.Files,
	}
	for _, child := range info.Children {
		out.Children = append(out.Children, subpackageJSON(child))
	}
	return out
}

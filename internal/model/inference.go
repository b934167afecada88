package model

// ExtentThreshold is the cluster extent threshold.
type ExtentThreshold struct {
	PCorrected float64 `json:"pCorrected"`
}

// PeakCriteria are the rules used to report local maxima.
type PeakCriteria struct {
	StatNum int `json:"statNum"`
	// MaxPeaks is nil when the post-stats log does not limit the number of peaks.
	MaxPeaks    *int    `json:"maxPeaks,omitempty"`
	MinDistance float64 `json:"minDistance"`
}

// ClusterCriteria are the rules used to form clusters.
type ClusterCriteria struct {
	StatNum      int  `json:"statNum"`
	Connectivity *int `json:"connectivity,omitempty"`
}

// ExcursionSet is the thresholded statistic map.
type ExcursionSet struct {
	Map
	Visualisation string `json:"visualisation"`
}

// DisplayMask is the contrast mask applied before thresholding.
type DisplayMask struct {
	Map
	StatNum int `json:"statNum"`
}

// SearchSpace is the in-mask volume and its smoothness.
type SearchSpace struct {
	Map
	ID                      string       `json:"id"`
	VolumeInVoxels          int          `json:"volumeInVoxels"`
	VolumeInUnits           float64      `json:"volumeInUnits"`
	VolumeInResels          float64      `json:"volumeInResels"`
	ReselSizeInVoxels       float64      `json:"reselSizeInVoxels"`
	DLH                     float64      `json:"dlh"`
	RandomFieldStationarity bool         `json:"randomFieldStationarity"`
	NoiseFWHMVoxels         *Coordinates `json:"noiseFWHMInVoxels,omitempty"`
	NoiseFWHMUnits          *Coordinates `json:"noiseFWHMInUnits,omitempty"`
}

// Peak is a local maximum within a cluster.
type Peak struct {
	// Index is 1-based within the owning cluster, in table order.
	Index          int          `json:"index"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	StdCoordinates *Coordinates `json:"stdCoordinates,omitempty"`
	EquivZ         float64      `json:"equivZ"`
	ClusterNumber  int          `json:"clusterNumber"`
	StatNum        int          `json:"statNum"`
}

// Cluster is a significant connected region with its peaks.
type Cluster struct {
	Number int     `json:"number"`
	Size   int     `json:"size"`
	PFWER  float64 `json:"pFWER"`
	// Coordinates is the centre of gravity in voxels.
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	// StdCoordinates is the centre of gravity in standard space.
	StdCoordinates *Coordinates `json:"stdCoordinates,omitempty"`
	Peaks          []Peak       `json:"peaks"`
}

// Inference is the thresholding of one contrast's statistic.
type Inference struct {
	// ID identifies the inference activity.
	ID              string           `json:"id"`
	ContrastID      string           `json:"contrastId"`
	ContrastName    string           `json:"contrastName"`
	StatNum         int              `json:"statNum"`
	Threshold       ThresholdSpec    `json:"threshold"`
	Extent          *ExtentThreshold `json:"extent,omitempty"`
	PeakCriteria    *PeakCriteria    `json:"peakCriteria,omitempty"`
	ClusterCriteria *ClusterCriteria `json:"clusterCriteria,omitempty"`
	DisplayMask     *DisplayMask     `json:"displayMask,omitempty"`
	ExcursionSet    ExcursionSet     `json:"excursionSet"`
	SearchSpace     SearchSpace      `json:"searchSpace"`
	// Clusters is nil under voxelwise thresholding, which reports no cluster
	// table, and serializes as null there; cluster-extent mode always has a list.
	Clusters   []Cluster `json:"clusters"`
	SoftwareID string    `json:"softwareId"`
}

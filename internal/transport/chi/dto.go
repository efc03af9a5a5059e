package chi

import (
	"math"
	"time"

	domanchor "github.com/kailas-cloud/anchor/internal/domain/anchor"
	domapproach "github.com/kailas-cloud/anchor/internal/domain/approach"
	domobj "github.com/kailas-cloud/anchor/internal/domain/arobject"
	"github.com/kailas-cloud/anchor/internal/domain/direction"
	"github.com/kailas-cloud/anchor/internal/domain/geo"
	dommag "github.com/kailas-cloud/anchor/internal/domain/magnetic"
	"github.com/kailas-cloud/anchor/internal/domain/wifi"
	guidanceuc "github.com/kailas-cloud/anchor/internal/usecase/guidance"
	"github.com/kailas-cloud/anchor/internal/version"
)

// --- shared ---

// GPS is a coordinate pair with optional accuracy and altitude.
type GPS struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	Altitude *float64 `json:"altitude,omitempty"`
}

// PointSample is a raw location fix, used for anchor samples and trail waypoints.
type PointSample struct {
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Accuracy  float64    `json:"accuracy"`
	Heading   *float64   `json:"heading"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Network is one observed access point.
type Network struct {
	BSSID string  `json:"bssid"`
	SSID  string  `json:"ssid"`
	RSSI  float64 `json:"rssi"`
}

// --- anchors ---

// CreateAnchorRequest is the body of POST /api/anchors.
type CreateAnchorRequest struct {
	Label       string        `json:"label"`
	Description string        `json:"description"`
	GPS         *GPS          `json:"gps"`
	Heading     *float64      `json:"heading"`
	ImageRef    string        `json:"imageRef"`
	Tags        []string      `json:"tags"`
	IsIndoor    bool          `json:"isIndoor"`
	Samples     []PointSample `json:"samples"`
}

// UpdateAnchorRequest is the body of PUT /api/anchors/{id}. Absent fields are kept.
type UpdateAnchorRequest struct {
	Label       *string  `json:"label"`
	Description *string  `json:"description"`
	GPS         *GPS     `json:"gps"`
	Heading     *float64 `json:"heading"`
	ImageRef    *string  `json:"imageRef"`
	Tags        []string `json:"tags"`
	IsIndoor    *bool    `json:"isIndoor"`
}

// AnchorGPS is the stored anchor position.
type AnchorGPS struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Accuracy *float64 `json:"accuracy"`
	Altitude *float64 `json:"altitude"`
}

// AnchorResponse is the JSON form of an anchor.
type AnchorResponse struct {
	ID          string    `json:"id"`
	Label       *string   `json:"label"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	GPS         AnchorGPS `json:"gps"`
	Heading     *float64  `json:"heading"`
	ImageRef    *string   `json:"imageRef"`
	Tags        []string  `json:"tags"`
	IsIndoor    bool      `json:"isIndoor"`
}

func anchorToResponse(a *domanchor.Anchor) AnchorResponse {
	pos := a.Position()
	tags := a.Tags()
	if tags == nil {
		tags = []string{}
	}
	return AnchorResponse{
		ID:          a.ID(),
		Label:       nullable(a.Label()),
		Description: nullable(a.Description()),
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
		GPS: AnchorGPS{
			Lat:      pos.Latitude,
			Lng:      pos.Longitude,
			Accuracy: nonZero(pos.Accuracy),
			Altitude: a.Altitude(),
		},
		Heading:  a.Heading(),
		ImageRef: nullable(a.ImageRef()),
		Tags:     tags,
		IsIndoor: a.Indoor(),
	}
}

func anchorParamsFromRequest(req *CreateAnchorRequest) domanchor.Params {
	p := domanchor.Params{
		Label:       req.Label,
		Description: req.Description,
		Position:    geo.At(*req.GPS.Lat, *req.GPS.Lng),
		Altitude:    req.GPS.Altitude,
		Heading:     req.Heading,
		ImageRef:    req.ImageRef,
		Tags:        req.Tags,
		Indoor:      req.IsIndoor,
	}
	if req.GPS.Accuracy != nil {
		p.Position.Accuracy = *req.GPS.Accuracy
	}
	return p
}

func anchorPatchFromRequest(req *UpdateAnchorRequest) domanchor.Patch {
	p := domanchor.Patch{
		Label:       req.Label,
		Description: req.Description,
		Heading:     req.Heading,
		ImageRef:    req.ImageRef,
		Tags:        req.Tags,
		Indoor:      req.IsIndoor,
	}
	if req.GPS != nil {
		p.Latitude = req.GPS.Lat
		p.Longitude = req.GPS.Lng
		p.Accuracy = req.GPS.Accuracy
		p.Altitude = req.GPS.Altitude
	}
	return p
}

// --- objects ---

// CreateObjectRequest is the body of POST /api/objects.
type CreateObjectRequest struct {
	AnchorID           string   `json:"anchorId"`
	Label              string   `json:"label"`
	Description        string   `json:"description"`
	BearingFromAnchor  *float64 `json:"bearingFromAnchor"`
	DistanceFromAnchor *float64 `json:"distanceFromAnchor"`
	ElevationHint      string   `json:"elevationHint"`
	CaptureHeading     *float64 `json:"captureHeading"`
	CaptureGPS         *GPS     `json:"captureGps"`
	RoomLabel          string   `json:"roomLabel"`
	PlacementHeading   *float64 `json:"placementHeading"`
	ReferencePhoto     string   `json:"referencePhoto"`
}

// missingField returns the first required field message, or "" when complete.
func (r *CreateObjectRequest) missingField() string {
	switch {
	case r.AnchorID == "":
		return "anchorId is required"
	case r.Label == "":
		return "label is required"
	case r.BearingFromAnchor == nil:
		return "bearingFromAnchor is required"
	case r.CaptureHeading == nil:
		return "captureHeading is required"
	case r.CaptureGPS == nil || r.CaptureGPS.Lat == nil || r.CaptureGPS.Lng == nil:
		return "captureGps (lat, lng) is required"
	}
	return ""
}

func (r *CreateObjectRequest) params() domobj.Params {
	p := domobj.Params{
		AnchorID:          r.AnchorID,
		Label:             r.Label,
		Description:       r.Description,
		BearingFromAnchor: *r.BearingFromAnchor,
		Elevation:         domobj.Elevation(r.ElevationHint),
		CaptureHeading:    *r.CaptureHeading,
		CapturePosition:   geo.At(*r.CaptureGPS.Lat, *r.CaptureGPS.Lng),
		RoomLabel:         r.RoomLabel,
		PlacementHeading:  r.PlacementHeading,
		ReferencePhoto:    r.ReferencePhoto,
	}
	if r.DistanceFromAnchor != nil {
		p.DistanceFromAnchor = *r.DistanceFromAnchor
	}
	if r.CaptureGPS.Accuracy != nil {
		p.CapturePosition.Accuracy = *r.CaptureGPS.Accuracy
	}
	return p
}

// UpdateObjectRequest is the body of PUT /api/objects/{id}.
// The bearing from the anchor is fixed at creation.
type UpdateObjectRequest struct {
	Label              *string  `json:"label"`
	Description        *string  `json:"description"`
	DistanceFromAnchor *float64 `json:"distanceFromAnchor"`
	ElevationHint      *string  `json:"elevationHint"`
	ReferencePhoto     *string  `json:"referencePhoto"`
}

func (r *UpdateObjectRequest) patch() domobj.Patch {
	p := domobj.Patch{
		Label:              r.Label,
		Description:        r.Description,
		DistanceFromAnchor: r.DistanceFromAnchor,
		ReferencePhoto:     r.ReferencePhoto,
	}
	if r.ElevationHint != nil {
		e := domobj.Elevation(*r.ElevationHint)
		p.Elevation = &e
	}
	return p
}

// CaptureGPS is the position an object was placed from.
type CaptureGPS struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ObjectResponse is the JSON form of an AR object.
type ObjectResponse struct {
	ID                 string     `json:"id"`
	AnchorID           string     `json:"anchorId"`
	Label              string     `json:"label"`
	Description        *string    `json:"description"`
	CreatedAt          time.Time  `json:"createdAt"`
	BearingFromAnchor  float64    `json:"bearingFromAnchor"`
	DistanceFromAnchor *float64   `json:"distanceFromAnchor"`
	ElevationHint      *string    `json:"elevationHint"`
	CaptureHeading     float64    `json:"captureHeading"`
	CaptureGPS         CaptureGPS `json:"captureGps"`
	RoomLabel          *string    `json:"roomLabel"`
	PlacementHeading   *float64   `json:"placementHeading"`
	ReferencePhoto     *string    `json:"referencePhoto"`
}

func objectToResponse(o *domobj.Object) ObjectResponse {
	pos := o.CapturePosition()
	return ObjectResponse{
		ID:                 o.ID(),
		AnchorID:           o.AnchorID(),
		Label:              o.Label(),
		Description:        nullable(o.Description()),
		CreatedAt:          o.CreatedAt(),
		BearingFromAnchor:  o.BearingFromAnchor(),
		DistanceFromAnchor: nonZero(o.DistanceFromAnchor()),
		ElevationHint:      nullable(string(o.Elevation())),
		CaptureHeading:     o.CaptureHeading(),
		CaptureGPS:         CaptureGPS{Lat: pos.Latitude, Lng: pos.Longitude},
		RoomLabel:          nullable(o.RoomLabel()),
		PlacementHeading:   o.StoredPlacementHeading(),
		ReferencePhoto:     nullable(o.ReferencePhoto()),
	}
}

func objectsToResponse(objs []domobj.Object) []ObjectResponse {
	out := make([]ObjectResponse, len(objs))
	for i := range objs {
		out[i] = objectToResponse(&objs[i])
	}
	return out
}

// NearbyRequest is the body of POST /api/objects/nearby.
type NearbyRequest struct {
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	Accuracy     float64  `json:"accuracy"`
	Heading      *float64 `json:"heading"`
	RadiusMeters float64  `json:"radiusMeters"`
	ConeDegrees  float64  `json:"coneDegrees"`
}

// NearbyObject is an object that passed the proximity gate.
type NearbyObject struct {
	ObjectResponse
	Distance float64 `json:"distance"`
}

// NearbyResponse lists gated objects, closest first.
type NearbyResponse struct {
	Objects []NearbyObject `json:"objects"`
}

// --- fingerprints ---

// StoreFingerprintRequest is the body of POST /api/guidance/fingerprint/{objectId}.
type StoreFingerprintRequest struct {
	Networks  []Network `json:"networks"`
	RoomLabel string    `json:"roomLabel"`
	Heading   *float64  `json:"heading"`
}

// StoreFingerprintResponse acknowledges a stored fingerprint.
type StoreFingerprintResponse struct {
	ID           string  `json:"id"`
	ObjectID     string  `json:"objectId"`
	Stored       bool    `json:"stored"`
	NetworkCount int     `json:"networkCount"`
	RoomLabel    *string `json:"roomLabel"`
}

// FingerprintResponse is the JSON form of a stored fingerprint.
type FingerprintResponse struct {
	ID        string    `json:"id"`
	ObjectID  string    `json:"objectId"`
	CreatedAt time.Time `json:"createdAt"`
	Networks  []Network `json:"networks"`
	RoomLabel *string   `json:"roomLabel"`
}

// DeleteFingerprintResponse acknowledges a removed fingerprint.
type DeleteFingerprintResponse struct {
	Deleted  bool   `json:"deleted"`
	ObjectID string `json:"objectId"`
}

func networksFromRequest(in []Network) []wifi.Network {
	if in == nil {
		return nil
	}
	out := make([]wifi.Network, len(in))
	for i, n := range in {
		out[i] = wifi.Network{ID: n.BSSID, Name: n.SSID, SignalDBm: n.RSSI}
	}
	return out
}

func networksToResponse(in []wifi.Network) []Network {
	out := make([]Network, len(in))
	for i, n := range in {
		out[i] = Network{BSSID: n.ID, SSID: n.Name, RSSI: n.SignalDBm}
	}
	return out
}

func fingerprintToResponse(f *wifi.Fingerprint) FingerprintResponse {
	return FingerprintResponse{
		ID:        f.ID(),
		ObjectID:  f.ObjectID(),
		CreatedAt: f.CapturedAt(),
		Networks:  networksToResponse(f.Networks()),
		RoomLabel: nullable(f.RoomLabel()),
	}
}

// --- guidance ---

// GuidanceRequest is the body of POST /api/guidance.
type GuidanceRequest struct {
	TargetObjectID  string    `json:"targetObjectId"`
	CurrentNetworks []Network `json:"currentNetworks"`
	CurrentHeading  *float64  `json:"currentHeading"`
	SessionID       string    `json:"sessionId"`
}

// RoomMatch compares the target room with the confirmed current room.
type RoomMatch struct {
	TargetRoom        string  `json:"targetRoom"`
	LikelyCurrentRoom string  `json:"likelyCurrentRoom"`
	Similarity        float64 `json:"similarity"`
}

// DirectionHint is a signal-based direction suggestion.
type DirectionHint struct {
	Hint            string   `json:"hint"`
	Action          string   `json:"action"`
	RelativeBearing *float64 `json:"relativeBearing"`
	Confidence      float64  `json:"confidence"`
}

// GuidanceObject echoes the target object.
type GuidanceObject struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	Description    *string `json:"description"`
	ElevationHint  *string `json:"elevationHint"`
	ReferencePhoto *string `json:"referencePhoto"`
}

// UnregisteredObject is echoed when the target is unknown.
type UnregisteredObject struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// GuidanceResponse is the signal guidance answer.
type GuidanceResponse struct {
	Phase                string        `json:"phase"`
	PhaseDescription     string        `json:"phaseDescription"`
	Confidence           float64       `json:"confidence"`
	RawSimilarity        float64       `json:"rawSimilarity"`
	RoomMatch            RoomMatch     `json:"roomMatch"`
	Direction            DirectionHint `json:"direction"`
	Object               any           `json:"object"`
	ShowGhostImage       bool          `json:"showGhostImage"`
	ShowDirectionalArrow bool          `json:"showDirectionalArrow"`
}

func guidanceToResponse(res *guidanceuc.Result) GuidanceResponse {
	var obj any
	if res.Object.Registered {
		obj = GuidanceObject{
			ID:             res.Object.ID,
			Label:          res.Object.Label,
			Description:    nullable(res.Object.Description),
			ElevationHint:  nullable(string(res.Object.Elevation)),
			ReferencePhoto: nullable(res.Object.ReferencePhoto),
		}
	} else {
		obj = UnregisteredObject{ID: res.Object.ID, Label: res.Object.Label}
	}

	return GuidanceResponse{
		Phase:            string(res.Phase),
		PhaseDescription: res.PhaseDescription,
		Confidence:       round2(res.Confidence),
		RawSimilarity:    round2(res.RawSimilarity),
		RoomMatch: RoomMatch{
			TargetRoom:        res.Room.TargetRoom,
			LikelyCurrentRoom: res.Room.LikelyCurrentRoom,
			Similarity:        round2(res.Room.Similarity),
		},
		Direction:            directionToResponse(res.Direction),
		Object:               obj,
		ShowGhostImage:       res.ShowGhostImage,
		ShowDirectionalArrow: res.ShowDirectionalArrow,
	}
}

func directionToResponse(h direction.Hint) DirectionHint {
	return DirectionHint{
		Hint:            h.Text,
		Action:          string(h.Action),
		RelativeBearing: h.RelativeBearing,
		Confidence:      h.Confidence,
	}
}

// ResetSessionRequest is the body of POST /api/guidance/reset-session.
type ResetSessionRequest struct {
	ObjectID  string `json:"objectId"`
	SessionID string `json:"sessionId"`
}

// ResetSessionResponse acknowledges a reset.
type ResetSessionResponse struct {
	Reset   bool `json:"reset"`
	Cleared int  `json:"cleared"`
}

// ScanGuidance is the geodesic guidance for one object.
type ScanGuidance struct {
	State            string  `json:"state"`
	AngleDelta       int     `json:"angleDelta"`
	TargetHeading    int     `json:"targetHeading"`
	Instruction      string  `json:"instruction"`
	ProximityState   string  `json:"proximityState"`
	DistanceToAnchor int     `json:"distanceToAnchor"`
	DistanceHint     string  `json:"distanceHint"`
	ElevationHint    *string `json:"elevationHint"`
}

// ScanObject is one entry of the multi-object scan.
type ScanObject struct {
	ID             string       `json:"id"`
	Label          string       `json:"label"`
	ReferencePhoto *string      `json:"referencePhoto"`
	Guidance       ScanGuidance `json:"guidance"`
}

// ScanResponse lists scan results, closest anchor first.
type ScanResponse struct {
	Objects []ScanObject `json:"objects"`
}

func scanToResponse(items []guidanceuc.ScanItem) ScanResponse {
	out := make([]ScanObject, len(items))
	for i, it := range items {
		out[i] = ScanObject{
			ID:             it.ObjectID,
			Label:          it.Label,
			ReferencePhoto: nullable(it.ReferencePhoto),
			Guidance: ScanGuidance{
				State:            string(it.Steering.State),
				AngleDelta:       direction.Round(it.Steering.Delta),
				TargetHeading:    direction.Round(it.Steering.TargetHeading),
				Instruction:      it.Steering.Instruction,
				ProximityState:   string(it.Proximity),
				DistanceToAnchor: direction.Round(it.DistanceToAnchor),
				DistanceHint:     it.DistanceHint,
				ElevationHint:    nullable(it.ElevationHint),
			},
		}
	}
	return ScanResponse{Objects: out}
}

// --- approach vectors ---

// CreateVectorRequest is the body of POST /api/anchors/{id}/vectors.
type CreateVectorRequest struct {
	Waypoints     []PointSample `json:"waypoints"`
	TotalDistance *float64      `json:"totalDistance"`
	AvgHeading    *float64      `json:"avgHeading"`
}

// VectorResponse is the JSON form of an approach vector.
type VectorResponse struct {
	ID            string        `json:"id"`
	AnchorID      string        `json:"anchorId"`
	CreatedAt     time.Time     `json:"createdAt"`
	Waypoints     []PointSample `json:"waypoints"`
	TotalDistance float64       `json:"totalDistance"`
	AvgHeading    *float64      `json:"avgHeading"`
}

func vectorToResponse(v *domapproach.Vector) VectorResponse {
	return VectorResponse{
		ID:            v.ID(),
		AnchorID:      v.AnchorID(),
		CreatedAt:     v.CreatedAt(),
		Waypoints:     samplesToResponse(v.Waypoints()),
		TotalDistance: v.TotalDistance(),
		AvgHeading:    v.AvgHeading(),
	}
}

func vectorsToResponse(vs []domapproach.Vector) []VectorResponse {
	out := make([]VectorResponse, len(vs))
	for i := range vs {
		out[i] = vectorToResponse(&vs[i])
	}
	return out
}

func samplesFromRequest(in []PointSample) []geo.Point {
	if in == nil {
		return nil
	}
	out := make([]geo.Point, len(in))
	for i, s := range in {
		out[i] = geo.Point{Latitude: s.Lat, Longitude: s.Lng, Accuracy: s.Accuracy, Heading: s.Heading}
		if s.Timestamp != nil {
			out[i].Timestamp = *s.Timestamp
		}
	}
	return out
}

func samplesToResponse(in []geo.Point) []PointSample {
	out := make([]PointSample, len(in))
	for i, p := range in {
		out[i] = PointSample{Lat: p.Latitude, Lng: p.Longitude, Accuracy: p.Accuracy, Heading: p.Heading}
		if !p.Timestamp.IsZero() {
			ts := p.Timestamp
			out[i].Timestamp = &ts
		}
	}
	return out
}

// --- magnetic fingerprints ---

// FieldVector is a magnetometer reading.
type FieldVector struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

// DeviceOrientation is the device attitude at capture time.
type DeviceOrientation struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// StoreMagneticRequest is the body of POST /api/anchors/{id}/fingerprint.
type StoreMagneticRequest struct {
	Magnitude         *float64           `json:"magnitude"`
	Vector            *FieldVector       `json:"vector"`
	Inclination       *float64           `json:"inclination"`
	DeviceOrientation *DeviceOrientation `json:"deviceOrientation"`
	SampleCount       *int               `json:"sampleCount"`
}

func (r *StoreMagneticRequest) complete() bool {
	return r.Magnitude != nil && r.Vector != nil &&
		r.Vector.X != nil && r.Vector.Y != nil && r.Vector.Z != nil
}

// params assumes complete() holds.
func (r *StoreMagneticRequest) params() dommag.Params {
	p := dommag.Params{
		Magnitude:   r.Magnitude,
		Vector:      &dommag.Vector3{X: *r.Vector.X, Y: *r.Vector.Y, Z: *r.Vector.Z},
		Inclination: r.Inclination,
		SampleCount: r.SampleCount,
	}
	if o := r.DeviceOrientation; o != nil {
		p.Orientation = &dommag.Orientation{Alpha: o.Alpha, Beta: o.Beta, Gamma: o.Gamma}
	}
	return p
}

// MagneticVector is the response form of a magnetometer reading.
type MagneticVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MagneticResponse is the JSON form of a magnetic fingerprint.
type MagneticResponse struct {
	ID                string             `json:"id"`
	AnchorID          string             `json:"anchorId"`
	CreatedAt         time.Time          `json:"createdAt"`
	Magnitude         float64            `json:"magnitude"`
	Vector            MagneticVector     `json:"vector"`
	Inclination       *float64           `json:"inclination"`
	DeviceOrientation *DeviceOrientation `json:"deviceOrientation"`
	SampleCount       *int               `json:"sampleCount"`
}

func magneticToResponse(f *dommag.Fingerprint) MagneticResponse {
	v := f.Vector()
	out := MagneticResponse{
		ID:          f.ID(),
		AnchorID:    f.AnchorID(),
		CreatedAt:   f.CreatedAt(),
		Magnitude:   f.Magnitude(),
		Vector:      MagneticVector{X: v.X, Y: v.Y, Z: v.Z},
		Inclination: f.Inclination(),
		SampleCount: f.SampleCount(),
	}
	if o := f.Orientation(); o != nil {
		out.DeviceOrientation = &DeviceOrientation{Alpha: o.Alpha, Beta: o.Beta, Gamma: o.Gamma}
	}
	return out
}

// --- misc ---

// DeletedResponse acknowledges a removed record.
type DeletedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status         string            `json:"status"`
	Checks         map[string]string `json:"checks"`
	ActiveSessions int               `json:"activeSessions"`
	Build          version.Info      `json:"build"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package views

const tmplDashboard = `
{{define "content"}}
<header class="page-head"><h1>Command Center</h1><span class="muted">{{.Role.Label}}</span></header>
<form method="get" class="filters">
  <label>Region<input name="region" value="{{.Data.Filter.Region}}" placeholder="All"></label>
  <label>Type
    <select name="type">
      <option value="">All</option>
      {{range vehicleTypes}}<option value="{{.}}" {{selected . $.Data.Filter.Type}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>Status
    <select name="status">
      <option value="">All</option>
      {{range vehicleStatuses}}<option value="{{.}}" {{selected . $.Data.Filter.Status}}>{{.}}</option>{{end}}
    </select>
  </label>
  <button type="submit">Apply</button>
  <a href="{{.Role.DashboardPath}}">Reset</a>
</form>
{{with .Data.Stats}}
<div class="cards">
  <div class="card"><div class="card-val">{{.ActiveFleet}}</div><div class="card-lbl">Active fleet</div></div>
  <div class="card"><div class="card-val">{{.MaintenanceAlerts}}</div><div class="card-lbl">In shop</div></div>
  <div class="card"><div class="card-val">{{pct .UtilizationRate}}</div><div class="card-lbl">Utilization</div></div>
  <div class="card"><div class="card-val">{{.PendingTrips}}</div><div class="card-lbl">Pending trips</div></div>
  <div class="card"><div class="card-val">{{.TotalVehicles}}</div><div class="card-lbl">Vehicles</div></div>
</div>
{{end}}
{{end}}
`

const tmplVehicles = `
{{define "content"}}
<header class="page-head"><h1>Vehicle Registry</h1></header>
<form method="get" action="/vehicles" class="filters">
  <input type="search" name="q" value="{{.Data.Query}}" placeholder="Search name or plate">
  <button type="submit">Search</button>
</form>
{{if or ($.Can.Allowed "vehicle.create") (and .Data.EditID ($.Can.Allowed "vehicle.update"))}}
<section class="panel">
  <h2>{{if .Data.EditID}}Edit vehicle{{else}}Register vehicle{{end}}</h2>
  {{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}
  <form method="post" action="{{if .Data.EditID}}/vehicles/{{.Data.EditID}}/update{{else}}/vehicles/new{{end}}" class="grid-form" data-submit-once>
    <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
    {{with .Data.Form}}
    <label>Name<input name="name" value="{{.Name}}" required></label>
    <label>License plate<input name="license_plate" value="{{.LicensePlate}}" required></label>
    <label>Type
      <select name="vehicle_type">{{range vehicleTypes}}<option value="{{.}}" {{selected . $.Data.Form.VehicleType}}>{{.}}</option>{{end}}</select>
    </label>
    <label>Region<input name="region" value="{{.Region}}"></label>
    <label>Max load (kg)<input type="number" step="any" min="0" name="max_load_capacity" value="{{num .MaxLoadCapacity}}" required></label>
    <label>Odometer (km)<input type="number" step="any" min="0" name="odometer" value="{{num .Odometer}}"></label>
    <label>Acquisition cost<input type="number" step="any" min="0" name="acquisition_cost" value="{{num .AcquisitionCost}}"></label>
    {{end}}
    <div class="actions">
      <button type="submit" class="primary">{{if .Data.EditID}}Save{{else}}Create{{end}}</button>
      {{if .Data.EditID}}<a href="/vehicles">Cancel</a>{{end}}
    </div>
  </form>
</section>
{{end}}
<table class="list">
  <thead><tr><th>Name</th><th>Plate</th><th>Type</th><th>Region</th><th>Capacity</th><th>Odometer</th><th>Status</th><th></th></tr></thead>
  <tbody>
  {{range .Data.Rows}}
    <tr>
      <td>{{.Name}}</td><td>{{.LicensePlate}}</td><td>{{.VehicleType}}</td><td>{{.Region}}</td>
      <td>{{num .MaxLoadCapacity}} kg</td><td>{{num .Odometer}} km</td>
      <td><span class="badge status-{{slug .Status}}">{{.Status}}</span></td>
      <td class="row-actions">
        {{if $.Can.Allowed "vehicle.update"}}<a href="/vehicles?edit={{.ID}}">Edit</a>{{end}}
        {{if and .CanToggle ($.Can.Allowed "vehicle.toggle")}}
        <form method="post" action="/vehicles/{{.ID}}/toggle" data-submit-once>
          <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
          <input type="hidden" name="status" value="{{.Toggle}}">
          <button type="submit">{{if eq .Toggle "Retired"}}Retire{{else}}Return to service{{end}}</button>
        </form>
        {{end}}
        {{if $.Can.Allowed "vehicle.delete"}}
        <form method="post" action="/vehicles/{{.ID}}/delete" data-submit-once data-confirm="Delete {{.Name}}?">
          <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
          <button type="submit" class="danger">Delete</button>
        </form>
        {{end}}
      </td>
    </tr>
  {{else}}
    <tr><td colspan="8" class="empty">No vehicles{{if .Data.Query}} match "{{.Data.Query}}"{{end}}.</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}
`

const tmplTrips = `
{{define "content"}}
<header class="page-head"><h1>Trip Dispatcher</h1></header>
{{if $.Can.Allowed "trip.create"}}
<section class="panel">
  <h2>New trip</h2>
  {{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}
  <form method="post" action="/trips/new" class="grid-form" data-submit-once data-trip-form>
    <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
    <label>Vehicle
      <select name="vehicle_id" required>
        <option value="">Select a vehicle</option>
        {{range .Data.Vehicles}}<option value="{{.ID}}" data-capacity="{{.MaxLoadCapacity}}" {{selected .ID $.Data.Form.VehicleID}}>{{.Name}} ({{.LicensePlate}}) · {{num .MaxLoadCapacity}} kg</option>{{end}}
      </select>
    </label>
    <label>Driver
      <select name="driver_id" required>
        <option value="">Select a driver</option>
        {{range .Data.Drivers}}<option value="{{.ID}}" {{selected .ID $.Data.Form.DriverID}}>{{.Name}}</option>{{end}}
      </select>
    </label>
    <label>Source<input name="source" value="{{.Data.Form.Source}}" required></label>
    <label>Destination<input name="destination" value="{{.Data.Form.Destination}}" required></label>
    <label>Planned start<input type="datetime-local" name="planned_start_date" value="{{.Data.PlannedStart}}"></label>
    <label>Cargo (kg)<input type="number" step="any" min="0" name="cargo_weight" value="{{num .Data.Form.CargoWeight}}" required></label>
    <label>Distance (km)<input type="number" step="any" min="0" name="distance_km" value="{{num .Data.Form.DistanceKM}}"></label>
    <label>Revenue<input type="number" step="any" min="0" name="revenue" value="{{num .Data.Form.Revenue}}"></label>
    <div class="overweight" data-overweight {{if not .Data.Check.Overweight}}hidden{{end}}>{{.Data.Check.Message}}</div>
    <div class="actions"><button type="submit" class="primary" {{if .Data.Check.Overweight}}disabled{{end}}>Create trip</button></div>
  </form>
</section>
{{end}}
<div class="trip-list">
{{range .Data.Rows}}
  <article class="trip state-{{slug .State}}">
    <header>
      <strong>{{.Name}}</strong> <span class="muted">{{.Source}} → {{.Destination}}</span>
      <span class="badge status-{{slug .State}}">{{.State}}</span>
    </header>
    <ol class="stepper">
      {{range .Steps}}<li class="{{if .Done}}done{{end}}{{if .Active}} active{{end}}{{if .Error}} error{{end}}">{{.Label}}</li>{{end}}
    </ol>
    <dl class="facts">
      <dt>Vehicle</dt><dd>{{if .VehicleName}}{{.VehicleName}}{{else}}—{{end}}</dd>
      <dt>Driver</dt><dd>{{if .DriverName}}{{.DriverName}}{{else}}—{{end}}</dd>
      <dt>Cargo</dt><dd>{{num .CargoWeight}} kg</dd>
      <dt>Distance</dt><dd>{{num .DistanceKM}} km</dd>
      <dt>Revenue</dt><dd>{{money .Revenue}}</dd>
      {{if .PlannedStartDate}}<dt>Planned</dt><dd>{{.PlannedStartDate}}</dd>{{end}}
    </dl>
    {{if and .Controls ($.Can.Allowed "trip.transition")}}
    <div class="row-actions">
      {{$id := .ID}}
      {{range .Controls}}
      <form method="post" action="/trips/{{$id}}/{{.Action}}" data-submit-once>
        <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
        <button type="submit" class="{{if .Danger}}danger{{end}}" {{if .Disabled}}disabled title="{{.Reason}}"{{end}}>{{.Label}}</button>
        {{if .Disabled}}<span class="muted">{{.Reason}}</span>{{end}}
      </form>
      {{end}}
    </div>
    {{end}}
  </article>
{{else}}
  <p class="empty">No trips yet.</p>
{{end}}
</div>
{{end}}
`

const tmplDrivers = `
{{define "content"}}
<header class="page-head"><h1>Driver Profiles</h1></header>
{{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}
<table class="list">
  <thead><tr><th>Name</th><th>Licence</th><th>Expiry</th><th>Status</th><th>Safety</th><th>Completion</th>{{if $.Can.Allowed "driver.update"}}<th></th>{{end}}</tr></thead>
  <tbody>
  {{range .Data.Rows}}
    <tr>
      <td>{{.Name}}</td>
      <td>{{.LicenseNumber}}</td>
      <td class="{{if .Licence.Expired}}expired{{else if .Licence.Soon}}expiring{{end}}">
        {{.LicenseExpiryDate}}
        {{if .Licence.Expired}}<span class="badge status-expired">Expired</span>
        {{else if .Licence.Soon}}<span class="badge status-expiring">{{.Licence.Days}} days left</span>{{end}}
      </td>
      <td><span class="badge status-{{slug .Status}}">{{.Status}}</span></td>
      <td><span class="score score-{{.Safety}}">{{num .SafetyScore}}</span></td>
      <td>{{pct .CompletionRate}}</td>
      {{if $.Can.Allowed "driver.update"}}
      <td class="row-actions">
        <form method="post" action="/drivers/{{.ID}}/status" data-submit-once>
          <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
          <select name="status">{{$cur := .Status}}{{range driverStatuses}}<option value="{{.}}" {{selected . $cur}}>{{.}}</option>{{end}}</select>
          <button type="submit">Set</button>
        </form>
        <form method="post" action="/drivers/{{.ID}}/score" data-submit-once>
          <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
          <input type="number" name="safety_score" min="0" max="100" step="any" value="{{num .SafetyScore}}">
          <button type="submit">Update</button>
        </form>
      </td>
      {{end}}
    </tr>
  {{else}}
    <tr><td colspan="7" class="empty">No drivers.</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}
`

const tmplMaintenance = `
{{define "content"}}
<header class="page-head"><h1>Service Logs</h1></header>
{{if $.Can.Allowed "maintenance.create"}}
<section class="panel">
  <h2>Log service</h2>
  {{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}
  <form method="post" action="/maintenance/new" class="grid-form" data-submit-once>
    <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
    <label>Vehicle
      <select name="vehicle_id" required>
        <option value="">Select a vehicle</option>
        {{range .Data.Vehicles}}<option value="{{.ID}}" {{selected .ID $.Data.Form.VehicleID}}>{{.Name}} ({{.LicensePlate}})</option>{{end}}
      </select>
    </label>
    <label>Date<input type="date" name="date" value="{{.Data.Form.Date}}"></label>
    <label>Service<input name="service_type" value="{{.Data.Form.ServiceType}}" required></label>
    <label>Cost<input type="number" step="any" min="0" name="cost" value="{{num .Data.Form.Cost}}"></label>
    <label class="wide">Notes<textarea name="notes">{{.Data.Form.Notes}}</textarea></label>
    <div class="actions"><button type="submit" class="primary">Create</button></div>
  </form>
</section>
{{end}}
<table class="list">
  <thead><tr><th>Vehicle</th><th>Date</th><th>Service</th><th>Notes</th><th>Cost</th><th>State</th><th></th></tr></thead>
  <tbody>
  {{range .Data.Rows}}
    <tr>
      <td>{{.VehicleName}}</td><td>{{.Date}}</td><td>{{.ServiceType}}</td><td>{{.Notes}}</td>
      <td>{{money .Cost}}</td>
      <td><span class="badge status-{{slug .State}}">{{.State}}</span></td>
      <td class="row-actions">
        {{if and .CanComplete ($.Can.Allowed "maintenance.complete")}}
        <form method="post" action="/maintenance/{{.ID}}/done" data-submit-once>
          <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
          <button type="submit">Mark done</button>
        </form>
        {{end}}
      </td>
    </tr>
  {{else}}
    <tr><td colspan="7" class="empty">No service logs.</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}
`

const tmplFuel = `
{{define "content"}}
<header class="page-head"><h1>Fuel &amp; Expenses</h1></header>
{{if $.Can.Allowed "fuel.create"}}
<section class="panel">
  <h2>Log fuel</h2>
  {{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}
  <form method="post" action="/fuel/new" class="grid-form" data-submit-once>
    <input type="hidden" name="{{submitField}}" value="{{submitToken}}">
    <label>Vehicle
      <select name="vehicle_id" required>
        <option value="">Select a vehicle</option>
        {{range .Data.Vehicles}}<option value="{{.ID}}" {{selected .ID $.Data.Form.VehicleID}}>{{.Name}} ({{.LicensePlate}})</option>{{end}}
      </select>
    </label>
    <label>Date<input type="date" name="date" value="{{.Data.Form.Date}}"></label>
    <label>Liters<input type="number" step="any" min="0" name="liters" value="{{num .Data.Form.Liters}}" required></label>
    <label>Cost<input type="number" step="any" min="0" name="cost" value="{{num .Data.Form.Cost}}" required></label>
    <label>Odometer at fill<input type="number" step="any" min="0" name="odometer_at_fill" value="{{num .Data.Form.OdometerAtFill}}"></label>
    <div class="actions"><button type="submit" class="primary">Create</button></div>
  </form>
</section>
{{end}}
<table class="list">
  <thead><tr><th>Vehicle</th><th>Date</th><th>Liters</th><th>Cost</th><th>Odometer</th></tr></thead>
  <tbody>
  {{range .Data.Logs}}
    <tr><td>{{.VehicleName}}</td><td>{{.Date}}</td><td>{{num .Liters}}</td><td>{{money .Cost}}</td><td>{{num .OdometerAtFill}} km</td></tr>
  {{else}}
    <tr><td colspan="5" class="empty">No fuel logs.</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}
`

const tmplAnalytics = `
{{define "content"}}
<header class="page-head"><h1>Analytics &amp; ROI</h1></header>
{{with .Data.Summary}}
<div class="cards">
  <div class="card"><div class="card-val">{{money .TotalRevenue}}</div><div class="card-lbl">Revenue</div></div>
  <div class="card"><div class="card-val">{{money .TotalFuelCost}}</div><div class="card-lbl">Fuel cost</div></div>
  <div class="card"><div class="card-val">{{money .TotalMaintenanceCost}}</div><div class="card-lbl">Maintenance cost</div></div>
  <div class="card"><div class="card-val{{if lt .NetProfit 0.0}} negative{{end}}">{{money .NetProfit}}</div><div class="card-lbl">Net profit</div></div>
  <div class="card"><div class="card-val">{{.DeadStock}}</div><div class="card-lbl">Dead stock</div></div>
</div>
<table class="list">
  <thead><tr><th>Vehicle</th><th>Plate</th><th>Status</th><th>Revenue</th><th>Operational cost</th><th>Fuel efficiency</th><th>ROI</th><th></th></tr></thead>
  <tbody>
  {{range .Vehicles}}
    <tr class="{{if .DeadStock}}dead-stock{{end}}">
      <td>{{.Name}}</td><td>{{.LicensePlate}}</td>
      <td><span class="badge status-{{slug .Status}}">{{.Status}}</span></td>
      <td>{{money .VehicleRevenue}}</td><td>{{money .TotalOperationalCost}}</td>
      <td>{{num .FuelEfficiency}} km/L</td>
      <td class="{{if lt .ROI 0.0}}negative{{end}}">{{pct .ROI}}</td>
      <td>{{if .DeadStock}}<span class="badge status-dead">Dead stock</span>{{end}}</td>
    </tr>
  {{else}}
    <tr><td colspan="8" class="empty">No vehicle data.</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}
{{end}}
`
